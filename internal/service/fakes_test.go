package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/shopspring/decimal"
)

type fakeLedger struct {
	mu         sync.Mutex
	status     map[int64]models.RoomStatus
	rates      map[int64]models.RoomRate
	releaseErr map[int64]error
	releases   int
	// held reports whether a booking other than except runs past asOf
	held func(roomID int64, asOf time.Time, except int64) bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		status:     map[int64]models.RoomStatus{},
		rates:      map[int64]models.RoomRate{},
		releaseErr: map[int64]error{},
	}
}

func (l *fakeLedger) addRoom(id int64, number, rate string) {
	l.status[id] = models.RoomAvailable
	l.rates[id] = models.RoomRate{RoomID: id, HotelID: 1, RoomNumber: number, PricePerNight: decimal.RequireFromString(rate)}
}

func (l *fakeLedger) TryReserve(_ context.Context, roomID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.status[roomID]
	if !ok {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	if st != models.RoomAvailable {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomUnavailable, roomID)
	}
	l.status[roomID] = models.RoomOccupied
	return nil
}

func (l *fakeLedger) Release(_ context.Context, roomID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.releaseErr[roomID]; err != nil {
		return err
	}
	if _, ok := l.status[roomID]; !ok {
		return fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	l.status[roomID] = models.RoomAvailable
	l.releases++
	return nil
}

func (l *fakeLedger) ReleaseIdle(_ context.Context, roomID int64, asOf time.Time, except int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.releaseErr[roomID]; err != nil {
		return false, err
	}
	if l.status[roomID] != models.RoomOccupied {
		return false, nil
	}
	if l.held != nil && l.held(roomID, asOf, except) {
		return false, nil
	}
	l.status[roomID] = models.RoomAvailable
	l.releases++
	return true, nil
}

func (l *fakeLedger) StatusOf(_ context.Context, roomID int64) (models.RoomStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.status[roomID]
	if !ok {
		return "", fmt.Errorf("%w: %d", apperrors.ErrRoomNotFound, roomID)
	}
	return st, nil
}

func (l *fakeLedger) GetRate(_ context.Context, roomID int64) (*models.RoomRate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rates[roomID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type fakeBookings struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*models.Booking
	createErr error
	deleteErr error
	ledger    *fakeLedger
}

func newFakeBookings(ledger *fakeLedger) *fakeBookings {
	b := &fakeBookings{byID: map[int64]*models.Booking{}, ledger: ledger}
	ledger.held = b.held
	return b
}

func (b *fakeBookings) held(roomID int64, asOf time.Time, except int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.byID {
		if bk.RoomID == roomID && bk.ID != except && bk.CheckoutDate.After(asOf) {
			return true
		}
	}
	return false
}

func (b *fakeBookings) CreateWithPayment(_ context.Context, booking *models.Booking, payment *models.Payment) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createErr != nil {
		return b.createErr
	}
	b.nextID++
	booking.ID = b.nextID
	payment.BookingID = booking.ID
	payment.ID = b.nextID
	booking.Payment = payment
	stored := *booking
	b.byID[booking.ID] = &stored
	return nil
}

func (b *fakeBookings) GetByID(_ context.Context, id int64) (*models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *bk
	return &cp, nil
}

func (b *fakeBookings) ListByAccount(_ context.Context, accountID string, page, pageSize int) ([]models.Booking, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Booking
	for _, bk := range b.byID {
		if bk.GuestAccountID != nil && *bk.GuestAccountID == accountID {
			out = append(out, *bk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckoutDate.After(out[j].CheckoutDate) })
	total := len(out)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (b *fakeBookings) UpdateDates(_ context.Context, id int64, checkin, checkout time.Time, total decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	bk.CheckinDate, bk.CheckoutDate, bk.TotalPrice = checkin, checkout, total
	return nil
}

func (b *fakeBookings) Delete(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(b.byID, id)
	return nil
}

func (b *fakeBookings) FindExpired(_ context.Context, asOf time.Time, hotelID *int64) ([]models.ExpiredBooking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.ExpiredBooking
	for _, bk := range b.byID {
		if bk.CheckoutDate.After(asOf) {
			continue
		}
		if hotelID != nil && bk.HotelID != *hotelID {
			continue
		}
		if b.ledger.status[bk.RoomID] != models.RoomOccupied {
			continue
		}
		out = append(out, models.ExpiredBooking{
			BookingID:      bk.ID,
			RoomID:         bk.RoomID,
			RoomNumber:     bk.RoomNumber,
			HotelID:        bk.HotelID,
			GuestID:        bk.GuestID,
			GuestName:      bk.GuestName,
			GuestAccountID: bk.GuestAccountID,
			CheckoutDate:   bk.CheckoutDate,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out, nil
}

// put stores a booking directly, bypassing the service.
func (b *fakeBookings) put(bk models.Booking) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bk.ID > b.nextID {
		b.nextID = bk.ID
	}
	b.byID[bk.ID] = &bk
}

type fakeGuests struct {
	mu     sync.Mutex
	byAcct map[string]*models.Guest
	err    error
}

func newFakeGuests() *fakeGuests {
	return &fakeGuests{byAcct: map[string]*models.Guest{}}
}

func (g *fakeGuests) Resolve(_ context.Context, in *models.Guest) (*models.Guest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if existing, ok := g.byAcct[*in.AccountID]; ok {
		return existing, nil
	}
	guest := *in
	guest.ID = int64(len(g.byAcct) + 1)
	g.byAcct[*in.AccountID] = &guest
	return &guest, nil
}

type fakeScopes map[string]int64

func (f fakeScopes) HotelIDForAccount(_ context.Context, accountID string) (int64, bool, error) {
	id, ok := f[accountID]
	return id, ok, nil
}

type sentNotification struct {
	UserID  string
	Message string
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentNotification
	failTo map[string]bool
	block  bool
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, message string) error {
	if n.block {
		<-ctx.Done()
		return ctx.Err()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failTo[userID] {
		return errors.New("notification store unavailable")
	}
	n.sent = append(n.sent, sentNotification{UserID: userID, Message: message})
	return nil
}

func (n *fakeNotifier) to(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, s := range n.sent {
		if s.UserID == userID {
			out = append(out, s.Message)
		}
	}
	return out
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (p *fakePublisher) Publish(subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return p.err
}
