package service

import (
	"context"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/repository"
)

type PreferenceStore interface {
	Add(ctx context.Context, kind repository.PreferenceKind, userID string, roomID int64) error
	Remove(ctx context.Context, kind repository.PreferenceKind, userID string, roomID int64) error
}

// PreferenceService records likes and saved rooms, the inputs of the
// preference-based recommendations.
type PreferenceService struct {
	store PreferenceStore
}

func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

func (s *PreferenceService) Add(ctx context.Context, kind repository.PreferenceKind, userID string, roomID int64) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.store.Add(ctx, kind, userID, roomID)
}

func (s *PreferenceService) Remove(ctx context.Context, kind repository.PreferenceKind, userID string, roomID int64) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.store.Remove(ctx, kind, userID, roomID)
}
