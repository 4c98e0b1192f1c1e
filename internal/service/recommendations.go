package service

import (
	"context"
	"fmt"
	"strings"

	"elitestay/internal/cache"
	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/metrics"
	"elitestay/internal/models"
	"elitestay/internal/recommend"
	"elitestay/internal/repository"
)

const (
	defaultRecommendationLimit = 100
	defaultRecommendationPage  = 100

	MessageRecommended      = "You might like"
	MessageNoRecommendation = "No recommendations available."
	MessageNoLikes          = "You have not liked any rooms yet."
	MessageNoSaves          = "You have not saved any rooms yet."
)

type RoomTypeSource interface {
	ListAll(ctx context.Context) ([]models.RoomType, error)
}

type HotelSource interface {
	ListAll(ctx context.Context) ([]models.Hotel, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Hotel, error)
}

type RoomFinder interface {
	ListByRoomTypes(ctx context.Context, typeIDs []int64, page, pageSize int) ([]models.RoomView, int, error)
}

type PreferenceSource interface {
	RoomTypes(ctx context.Context, kind repository.PreferenceKind, userID string) ([]models.RoomType, error)
}

// RecommendationCache is satisfied by *cache.ValkeyClient.
type RecommendationCache interface {
	GetIDs(ctx context.Context, key string) ([]int64, bool, error)
	SetIDs(ctx context.Context, key string, ids []int64) error
}

type RecommendationService struct {
	roomTypes RoomTypeSource
	hotels    HotelSource
	rooms     RoomFinder
	prefs     PreferenceSource
	cache     RecommendationCache
	limit     int

	roomIndex  *recommend.Index
	hotelIndex *recommend.Index
}

func NewRecommendationService(roomTypes RoomTypeSource, hotels HotelSource, rooms RoomFinder, prefs PreferenceSource, cache RecommendationCache, limit int) *RecommendationService {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	return &RecommendationService{
		roomTypes:  roomTypes,
		hotels:     hotels,
		rooms:      rooms,
		prefs:      prefs,
		cache:      cache,
		limit:      limit,
		roomIndex:  recommend.NewIndex(),
		hotelIndex: recommend.NewIndex(),
	}
}

// Refresh rebuilds both indexes from the database.
func (s *RecommendationService) Refresh(ctx context.Context) error {
	if err := s.RefreshRoomTypes(ctx); err != nil {
		return err
	}
	return s.RefreshHotels(ctx)
}

// RefreshRoomTypes rebuilds the room type description index. Cached results
// are keyed on the corpus digest, so a changed corpus retires them.
func (s *RecommendationService) RefreshRoomTypes(ctx context.Context) error {
	types, err := s.roomTypes.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load room types: %w", err)
	}

	docs := make([]recommend.Document, len(types))
	for i, rt := range types {
		docs[i] = recommend.Document{ID: rt.ID, Text: rt.Description}
	}
	version := s.roomIndex.Rebuild(docs)
	metrics.RecommendationIndexSize.WithLabelValues("room_types").Set(float64(len(docs)))

	logger.WithContext(ctx).Debug("Rebuilt room type index", "documents", len(docs), "version", version, "digest", s.roomIndex.Digest())
	return nil
}

func (s *RecommendationService) RefreshHotels(ctx context.Context) error {
	hotels, err := s.hotels.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load hotels: %w", err)
	}

	docs := make([]recommend.Document, len(hotels))
	for i, h := range hotels {
		docs[i] = recommend.Document{ID: h.ID, Text: h.Tags}
	}
	version := s.hotelIndex.Rebuild(docs)
	metrics.RecommendationIndexSize.WithLabelValues("hotels").Set(float64(len(docs)))

	logger.WithContext(ctx).Debug("Rebuilt hotel index", "documents", len(docs), "version", version)
	return nil
}

// rankRoomTypes returns room type ids ranked against query, served from the
// cache when the corpus content matches.
func (s *RecommendationService) rankRoomTypes(ctx context.Context, query string) []int64 {
	var key string
	if s.cache != nil {
		key = cache.RecommendationKey(s.roomIndex.Digest(), "query", query)
		ids, ok, err := s.cache.GetIDs(ctx, key)
		if err != nil {
			logger.WithContext(ctx).Warn("Recommendation cache lookup failed", "error", err)
		}
		if ok {
			return ids
		}
	}

	matches := s.roomIndex.RankCorpus(query, s.limit)
	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}

	if s.cache != nil {
		if err := s.cache.SetIDs(ctx, key, ids); err != nil {
			logger.WithContext(ctx).Warn("Recommendation cache store failed", "error", err)
		}
	}
	return ids
}

// ByQuery recommends rooms whose type description matches free text.
func (s *RecommendationService) ByQuery(ctx context.Context, query string, page, pageSize int) (*models.Recommendation[models.RoomView], error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrEmptyQuery
	}
	return s.roomsFor(ctx, s.rankRoomTypes(ctx, query), MessageNoRecommendation, page, pageSize)
}

// ByPreference recommends rooms similar to the types of the rooms the user
// liked or saved. Each preferred type's description is used as a query and
// the ranked ids are unioned in first-seen order.
func (s *RecommendationService) ByPreference(ctx context.Context, kind repository.PreferenceKind, userID string, page, pageSize int) (*models.Recommendation[models.RoomView], error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	types, err := s.prefs.RoomTypes(ctx, kind, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s preferences: %w", kind, err)
	}

	if len(types) == 0 {
		message := MessageNoLikes
		if kind == repository.PreferenceSave {
			message = MessageNoSaves
		}
		page, pageSize = normalizePage(page, pageSize, defaultRecommendationPage)
		return &models.Recommendation[models.RoomView]{
			Message: message,
			Page:    models.NewPage[models.RoomView](nil, 0, page, pageSize),
		}, nil
	}

	seen := make(map[int64]struct{})
	var ids []int64
	for _, rt := range types {
		if strings.TrimSpace(rt.Description) == "" {
			continue
		}
		for _, id := range s.rankRoomTypes(ctx, rt.Description) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	return s.roomsFor(ctx, ids, MessageNoRecommendation, page, pageSize)
}

func (s *RecommendationService) roomsFor(ctx context.Context, typeIDs []int64, emptyMessage string, page, pageSize int) (*models.Recommendation[models.RoomView], error) {
	page, pageSize = normalizePage(page, pageSize, defaultRecommendationPage)

	if len(typeIDs) == 0 {
		return &models.Recommendation[models.RoomView]{
			Message: emptyMessage,
			Page:    models.NewPage[models.RoomView](nil, 0, page, pageSize),
		}, nil
	}

	rooms, total, err := s.rooms.ListByRoomTypes(ctx, typeIDs, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommended rooms: %w", err)
	}

	message := MessageRecommended
	if total == 0 {
		message = emptyMessage
	}
	return &models.Recommendation[models.RoomView]{
		Message: message,
		Page:    models.NewPage(rooms, total, page, pageSize),
	}, nil
}

// Hotels recommends hotels whose tags match free text.
func (s *RecommendationService) Hotels(ctx context.Context, query string, page, pageSize int) (*models.Recommendation[models.Hotel], error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrEmptyQuery
	}
	page, pageSize = normalizePage(page, pageSize, defaultRecommendationPage)

	matches := s.hotelIndex.RankCorpus(query, s.limit)
	total := len(matches)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	window := matches[start:end]
	ids := make([]int64, len(window))
	for i, m := range window {
		ids[i] = m.ID
	}

	hotels, err := s.hotels.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommended hotels: %w", err)
	}

	byID := make(map[int64]models.Hotel, len(hotels))
	for _, h := range hotels {
		byID[h.ID] = h
	}
	ordered := make([]models.Hotel, 0, len(ids))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			ordered = append(ordered, h)
		}
	}

	message := MessageRecommended
	if total == 0 {
		message = MessageNoRecommendation
	}
	return &models.Recommendation[models.Hotel]{
		Message: message,
		Page:    models.NewPage(ordered, total, page, pageSize),
	}, nil
}
