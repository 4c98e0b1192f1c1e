package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/shopspring/decimal"
)

const defaultRatingPageSize = 20

// A hotel trends once it has more than TrendMinRatings ratings and a mean,
// rounded to one decimal, of at least TrendMinMean.
const TrendMinRatings = 200

var TrendMinMean = decimal.NewFromInt(3)

var (
	minRating = decimal.NewFromInt(1)
	maxRating = decimal.NewFromInt(5)
	two       = decimal.NewFromInt(2)
)

type RatingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	ListByHotel(ctx context.Context, hotelID int64, page, pageSize int) ([]models.Rating, int, error)
	Stats(ctx context.Context, minCount int) ([]models.HotelRatingStats, error)
}

type RatingService struct {
	ratings RatingStore
	hotels  HotelSource
}

func NewRatingService(ratings RatingStore, hotels HotelSource) *RatingService {
	return &RatingService{ratings: ratings, hotels: hotels}
}

// ValidRating reports whether v lies in [1, 5] on a 0.5 step.
func ValidRating(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(minRating) && v.LessThanOrEqual(maxRating) && v.Mul(two).IsInteger()
}

func (s *RatingService) AddRating(ctx context.Context, identity models.Identity, req *models.AddRatingRequest) (*models.RatingResponse, error) {
	if identity.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !ValidRating(req.Value) {
		return nil, fmt.Errorf("%w: rating value must be between 1 and 5, with a step of 0.5", apperrors.ErrValidation)
	}
	if err := s.requireHotel(ctx, req.HotelID); err != nil {
		return nil, err
	}

	rating := &models.Rating{UserID: identity.UserID, HotelID: req.HotelID, Value: req.Value}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to add rating: %w", err)
	}
	resp := toRatingResponse(*rating)
	return &resp, nil
}

// HotelRatings lists a hotel's ratings, newest first.
func (s *RatingService) HotelRatings(ctx context.Context, hotelID int64, page, pageSize int) (models.Page[models.RatingResponse], error) {
	page, pageSize = normalizePage(page, pageSize, defaultRatingPageSize)
	if err := s.requireHotel(ctx, hotelID); err != nil {
		return models.Page[models.RatingResponse]{}, err
	}

	ratings, total, err := s.ratings.ListByHotel(ctx, hotelID, page, pageSize)
	if err != nil {
		return models.Page[models.RatingResponse]{}, fmt.Errorf("failed to list ratings: %w", err)
	}
	data := make([]models.RatingResponse, len(ratings))
	for i, r := range ratings {
		data[i] = toRatingResponse(r)
	}
	return models.NewPage(data, total, page, pageSize), nil
}

// Trends returns trending hotels, best mean rating first.
func (s *RatingService) Trends(ctx context.Context) ([]models.HotelTrend, error) {
	stats, err := s.ratings.Stats(ctx, TrendMinRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	trending := selectTrends(stats)
	if len(trending) == 0 {
		return []models.HotelTrend{}, nil
	}

	ids := make([]int64, len(trending))
	for i, t := range trending {
		ids[i] = t.HotelID
	}
	hotels, err := s.hotels.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load trending hotels: %w", err)
	}
	byID := make(map[int64]models.Hotel, len(hotels))
	for _, h := range hotels {
		byID[h.ID] = h
	}

	out := make([]models.HotelTrend, 0, len(trending))
	for _, t := range trending {
		hotel, ok := byID[t.HotelID]
		if !ok {
			continue
		}
		out = append(out, models.HotelTrend{
			HotelID:     t.HotelID,
			RatingCount: t.Count,
			MeanRating:  t.Mean.StringFixed(1),
			Hotel:       hotel,
		})
	}
	return out, nil
}

// selectTrends rounds each mean half-to-even to one decimal, keeps the
// qualifying hotels and orders them by mean, then hotel id.
func selectTrends(stats []models.HotelRatingStats) []models.HotelRatingStats {
	out := make([]models.HotelRatingStats, 0, len(stats))
	for _, st := range stats {
		st.Mean = st.Mean.RoundBank(1)
		if st.Count > TrendMinRatings && st.Mean.GreaterThanOrEqual(TrendMinMean) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Mean.Cmp(out[j].Mean); c != 0 {
			return c > 0
		}
		return out[i].HotelID < out[j].HotelID
	})
	return out
}

func (s *RatingService) requireHotel(ctx context.Context, hotelID int64) error {
	hotels, err := s.hotels.GetByIDs(ctx, []int64{hotelID})
	if err != nil {
		return fmt.Errorf("failed to get hotel: %w", err)
	}
	if len(hotels) == 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrHotelNotFound, hotelID)
	}
	return nil
}

func toRatingResponse(r models.Rating) models.RatingResponse {
	return models.RatingResponse{
		UserID:  r.UserID,
		HotelID: r.HotelID,
		Value:   r.Value.StringFixed(1),
		RatedAt: r.RatedAt.UTC().Format(time.RFC3339),
	}
}
