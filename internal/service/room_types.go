package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/models"

	"github.com/shopspring/decimal"
)

const defaultRoomTypePageSize = 20

type RoomTypeStore interface {
	Create(ctx context.Context, rt *models.RoomType) error
	Update(ctx context.Context, rt *models.RoomType) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.RoomType, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]models.RoomType, int, error)
}

// RoomTypeIndexer is satisfied by *search.ElasticsearchClient.
type RoomTypeIndexer interface {
	IndexRoomType(ctx context.Context, rt *models.RoomType) error
	DeleteRoomType(ctx context.Context, id int64) error
	SearchRoomTypes(ctx context.Context, query string, page, pageSize int) ([]models.RoomType, int, error)
}

type IndexRefresher interface {
	RefreshRoomTypes(ctx context.Context) error
}

type RoomTypeService struct {
	store     RoomTypeStore
	indexer   RoomTypeIndexer
	refresher IndexRefresher
}

func NewRoomTypeService(store RoomTypeStore, indexer RoomTypeIndexer, refresher IndexRefresher) *RoomTypeService {
	return &RoomTypeService{store: store, indexer: indexer, refresher: refresher}
}

func roomTypeFromRequest(req *models.RoomTypeRequest) (*models.RoomType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.PricePerNight))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price %q", apperrors.ErrValidation, req.PricePerNight)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 1
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidation)
	}

	return &models.RoomType{
		Name:          name,
		PricePerNight: price.Round(2),
		Capacity:      capacity,
		Description:   strings.TrimSpace(req.Description),
		ImageURL:      strings.TrimSpace(req.ImageURL),
	}, nil
}

func (s *RoomTypeService) Get(ctx context.Context, id int64) (*models.RoomType, error) {
	rt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room type: %w", err)
	}
	if rt == nil {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrRoomTypeNotFound, id)
	}
	return rt, nil
}

func (s *RoomTypeService) Create(ctx context.Context, req *models.RoomTypeRequest) (*models.RoomType, error) {
	rt, err := roomTypeFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to create room type: %w", err)
	}
	s.afterChange(ctx, rt, false)
	return rt, nil
}

func (s *RoomTypeService) Update(ctx context.Context, id int64, req *models.RoomTypeRequest) (*models.RoomType, error) {
	rt, err := roomTypeFromRequest(req)
	if err != nil {
		return nil, err
	}
	rt.ID = id
	if err := s.store.Update(ctx, rt); err != nil {
		return nil, err
	}
	s.afterChange(ctx, rt, false)
	return rt, nil
}

func (s *RoomTypeService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.afterChange(ctx, &models.RoomType{ID: id}, true)
	return nil
}

// afterChange rebuilds the recommendation index and syncs the search index.
// Neither failure undoes the write.
func (s *RoomTypeService) afterChange(ctx context.Context, rt *models.RoomType, deleted bool) {
	if s.refresher != nil {
		if err := s.refresher.RefreshRoomTypes(ctx); err != nil {
			logger.WithContext(ctx).Error("Failed to rebuild recommendation index",
				"error", err, "room_type_id", rt.ID)
		}
	}

	if s.indexer == nil {
		return
	}
	var err error
	if deleted {
		err = s.indexer.DeleteRoomType(ctx, rt.ID)
	} else {
		err = s.indexer.IndexRoomType(ctx, rt)
	}
	if err != nil {
		logger.WithContext(ctx).Error("Failed to sync room type search index",
			"error", err, "room_type_id", rt.ID, "deleted", deleted)
	}
}

// Search uses Elasticsearch when configured and falls back to the database.
func (s *RoomTypeService) Search(ctx context.Context, query string, page, pageSize int) (models.Page[models.RoomType], error) {
	page, pageSize = normalizePage(page, pageSize, defaultRoomTypePageSize)

	if s.indexer != nil {
		items, total, err := s.indexer.SearchRoomTypes(ctx, query, page, pageSize)
		if err == nil {
			return models.NewPage(items, total, page, pageSize), nil
		}
		logger.WithContext(ctx).Warn("Search index unavailable, falling back to database", "error", err)
	}

	items, total, err := s.store.Search(ctx, strings.TrimSpace(query), page, pageSize)
	if err != nil {
		return models.Page[models.RoomType]{}, fmt.Errorf("failed to search room types: %w", err)
	}
	return models.NewPage(items, total, page, pageSize), nil
}
