package service

import (
	"context"
	"errors"
	"testing"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoomTypeStore struct {
	nextID  int64
	byID    map[int64]models.RoomType
	deleted []int64
}

func (s *fakeRoomTypeStore) Create(_ context.Context, rt *models.RoomType) error {
	s.nextID++
	rt.ID = s.nextID
	s.byID[rt.ID] = *rt
	return nil
}

func (s *fakeRoomTypeStore) Update(_ context.Context, rt *models.RoomType) error {
	if _, ok := s.byID[rt.ID]; !ok {
		return apperrors.ErrRoomTypeNotFound
	}
	s.byID[rt.ID] = *rt
	return nil
}

func (s *fakeRoomTypeStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return apperrors.ErrRoomTypeNotFound
	}
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeRoomTypeStore) GetByID(_ context.Context, id int64) (*models.RoomType, error) {
	rt, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &rt, nil
}

func (s *fakeRoomTypeStore) Search(_ context.Context, _ string, _, _ int) ([]models.RoomType, int, error) {
	var out []models.RoomType
	for _, rt := range s.byID {
		out = append(out, rt)
	}
	return out, len(out), nil
}

type fakeIndexer struct {
	indexed   []int64
	removed   []int64
	err       error
	searchErr error
}

func (i *fakeIndexer) IndexRoomType(_ context.Context, rt *models.RoomType) error {
	i.indexed = append(i.indexed, rt.ID)
	return i.err
}

func (i *fakeIndexer) DeleteRoomType(_ context.Context, id int64) error {
	i.removed = append(i.removed, id)
	return i.err
}

func (i *fakeIndexer) SearchRoomTypes(_ context.Context, _ string, _, _ int) ([]models.RoomType, int, error) {
	if i.searchErr != nil {
		return nil, 0, i.searchErr
	}
	return []models.RoomType{{ID: 42, Name: "from index"}}, 1, nil
}

type countingRefresher struct{ n int }

func (r *countingRefresher) RefreshRoomTypes(context.Context) error {
	r.n++
	return nil
}

func newRoomTypeService() (*RoomTypeService, *fakeRoomTypeStore, *fakeIndexer, *countingRefresher) {
	store := &fakeRoomTypeStore{byID: map[int64]models.RoomType{}}
	indexer := &fakeIndexer{}
	refresher := &countingRefresher{}
	return NewRoomTypeService(store, indexer, refresher), store, indexer, refresher
}

func TestRoomTypeLifecycle(t *testing.T) {
	svc, store, indexer, refresher := newRoomTypeService()
	ctx := context.Background()

	rt, err := svc.Create(ctx, &models.RoomTypeRequest{Name: " Deluxe ", PricePerNight: "120.456", Description: "sea view"})
	require.NoError(t, err)
	assert.Equal(t, "Deluxe", rt.Name)
	assert.Equal(t, "120.46", rt.PricePerNight.StringFixed(2))
	assert.Equal(t, 1, rt.Capacity)

	updated, err := svc.Update(ctx, rt.ID, &models.RoomTypeRequest{Name: "Deluxe", PricePerNight: "130", Capacity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)

	got, err := svc.Get(ctx, rt.ID)
	require.NoError(t, err)
	assert.Equal(t, "130.00", got.PricePerNight.StringFixed(2))

	require.NoError(t, svc.Delete(ctx, rt.ID))
	assert.Equal(t, []int64{rt.ID}, store.deleted)

	_, err = svc.Get(ctx, rt.ID)
	assert.True(t, errors.Is(err, apperrors.ErrRoomTypeNotFound))

	assert.Equal(t, 3, refresher.n)
	assert.Equal(t, []int64{rt.ID, rt.ID}, indexer.indexed)
	assert.Equal(t, []int64{rt.ID}, indexer.removed)
}

func TestRoomTypeValidation(t *testing.T) {
	svc, _, _, _ := newRoomTypeService()
	ctx := context.Background()

	for _, req := range []models.RoomTypeRequest{
		{Name: "", PricePerNight: "10"},
		{Name: "Twin", PricePerNight: "ten"},
		{Name: "Twin", PricePerNight: "-1"},
		{Name: "Twin", PricePerNight: "10", Capacity: -2},
	} {
		_, err := svc.Create(ctx, &req)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "%+v", req)
	}
}

func TestRoomTypeIndexFailureDoesNotFailWrite(t *testing.T) {
	svc, store, indexer, _ := newRoomTypeService()
	indexer.err = errors.New("es unavailable")

	rt, err := svc.Create(context.Background(), &models.RoomTypeRequest{Name: "Twin", PricePerNight: "80"})
	require.NoError(t, err)
	assert.Contains(t, store.byID, rt.ID)
}

func TestRoomTypeSearchFallsBackToDatabase(t *testing.T) {
	svc, _, indexer, _ := newRoomTypeService()
	ctx := context.Background()
	_, err := svc.Create(ctx, &models.RoomTypeRequest{Name: "Twin", PricePerNight: "80"})
	require.NoError(t, err)

	page, err := svc.Search(ctx, "twin", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(42), page.Data[0].ID)

	indexer.searchErr = errors.New("es unavailable")
	page, err = svc.Search(ctx, "twin", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Twin", page.Data[0].Name)
}
