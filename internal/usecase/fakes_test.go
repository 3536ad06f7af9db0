package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/usecase"
	"reservation-service/pkg/logger"
	"reservation-service/pkg/metrics"

	"gorm.io/gorm"
)

// Prometheus collectors register globally, so the test metrics are created
// once and shared across the package.
var (
	metricsOnce sync.Once
	testMetrics *metrics.Metrics
)

func newTestMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics("test")
	})
	return testMetrics
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations []*entity.Reservation

	createErr   error
	createDelay time.Duration

	staysQueries int

	idSeq       int64
	inflight    int32
	maxInflight int32
}

func (r *fakeReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	current := atomic.AddInt32(&r.inflight, 1)
	defer atomic.AddInt32(&r.inflight, -1)
	for {
		max := atomic.LoadInt32(&r.maxInflight)
		if current <= max || atomic.CompareAndSwapInt32(&r.maxInflight, max, current) {
			break
		}
	}

	if r.createDelay > 0 {
		time.Sleep(r.createDelay)
	}
	if r.createErr != nil {
		return r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if reservation.ID == "" {
		r.idSeq++
		reservation.ID = fmt.Sprintf("res-%d", r.idSeq)
	}
	stored := *reservation
	r.reservations = append(r.reservations, &stored)
	return nil
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reservation := range r.reservations {
		if reservation.ID == id {
			copied := *reservation
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeReservationRepo) CountConflicting(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, existing := range r.reservations {
		if existing.RoomID != roomID {
			continue
		}
		if existing.Status != entity.StatusConfirmed && existing.Status != entity.StatusPending {
			continue
		}
		if existing.CheckInDate.Before(checkOut) && existing.CheckOutDate.After(checkIn) {
			count++
		}
	}
	return count, nil
}

func (r *fakeReservationRepo) FindStaysByRoom(ctx context.Context, roomID string, statuses []string) ([]entity.StayInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staysQueries++

	allowed := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}

	var stays []entity.StayInterval
	for _, existing := range r.reservations {
		if existing.RoomID != roomID {
			continue
		}
		if _, ok := allowed[existing.Status]; !ok {
			continue
		}
		stays = append(stays, entity.StayInterval{
			CheckInDate:  existing.CheckInDate,
			CheckOutDate: existing.CheckOutDate,
			Status:       existing.Status,
		})
	}
	return stays, nil
}

func (r *fakeReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reservation := range r.reservations {
		if reservation.ID == id {
			reservation.Status = status
			return nil
		}
	}
	return errors.New("reservation not found")
}

func (r *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reservation := range r.reservations {
		if reservation.ID == id {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeReservationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reservations)
}

type fakeGuestRepo struct {
	mu         sync.Mutex
	guests     []*entity.Guest
	registered map[string]bool
	createErr  error
}

func (r *fakeGuestRepo) Create(ctx context.Context, guest *entity.Guest) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *guest
	r.guests = append(r.guests, &stored)
	return nil
}

func (r *fakeGuestRepo) ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registered[documentNumber] {
		return true, nil
	}
	for _, guest := range r.guests {
		if guest.DocumentNumber == documentNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGuestRepo) FindByReservation(ctx context.Context, reservationID string) ([]entity.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var guests []entity.Guest
	for _, guest := range r.guests {
		if guest.ReservationID == reservationID {
			guests = append(guests, *guest)
		}
	}
	return guests, nil
}

func (r *fakeGuestRepo) DeleteByReservation(ctx context.Context, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.guests[:0]
	for _, guest := range r.guests {
		if guest.ReservationID != reservationID {
			kept = append(kept, guest)
		}
	}
	r.guests = kept
	return nil
}

func (r *fakeGuestRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.guests)
}

// fakeCache is an in-memory AvailabilityCache. With failAll set, every
// operation errors, standing in for an unavailable Redis.
type fakeCache struct {
	mu sync.Mutex

	occupied  map[string][]string
	rooms     []entity.Room
	hasRooms  bool
	counters  map[string]int64
	revenue   map[string]float64
	failAll   bool
	roomDrops []string
	listDrops int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		occupied: make(map[string][]string),
		counters: make(map[string]int64),
		revenue:  make(map[string]float64),
	}
}

var errCacheDown = errors.New("cache unavailable")

func (c *fakeCache) GetOccupiedDates(ctx context.Context, roomID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return nil, errCacheDown
	}
	dates, ok := c.occupied[roomID]
	if !ok {
		return nil, nil
	}
	return dates, nil
}

func (c *fakeCache) SetOccupiedDates(ctx context.Context, roomID string, dates []string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errCacheDown
	}
	if dates == nil {
		dates = []string{}
	}
	c.occupied[roomID] = dates
	return nil
}

func (c *fakeCache) InvalidateRoom(ctx context.Context, roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errCacheDown
	}
	delete(c.occupied, roomID)
	c.roomDrops = append(c.roomDrops, roomID)
	return nil
}

func (c *fakeCache) GetAvailableRooms(ctx context.Context) ([]entity.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return nil, errCacheDown
	}
	if !c.hasRooms {
		return nil, nil
	}
	return c.rooms, nil
}

func (c *fakeCache) SetAvailableRooms(ctx context.Context, rooms []entity.Room, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errCacheDown
	}
	c.rooms = rooms
	c.hasRooms = true
	return nil
}

func (c *fakeCache) InvalidateAvailableRooms(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errCacheDown
	}
	c.rooms = nil
	c.hasRooms = false
	c.listDrops++
	return nil
}

func (c *fakeCache) IncrementDailyReservations(ctx context.Context, key string) (int64, error) {
	return c.bump("reservations:"+key, 1)
}

func (c *fakeCache) GetDailyReservations(ctx context.Context, date string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return 0, errCacheDown
	}
	return c.counters["reservations:"+date], nil
}

func (c *fakeCache) AddDailyRevenue(ctx context.Context, date string, amount float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return 0, errCacheDown
	}
	c.revenue[date] += amount
	return c.revenue[date], nil
}

func (c *fakeCache) GetDailyRevenue(ctx context.Context, date string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return 0, errCacheDown
	}
	return c.revenue[date], nil
}

func (c *fakeCache) IncrementOccupiedRooms(ctx context.Context) (int64, error) {
	return c.bump("rooms:occupied", 1)
}

func (c *fakeCache) DecrementOccupiedRooms(ctx context.Context) (int64, error) {
	return c.bump("rooms:occupied", -1)
}

func (c *fakeCache) GetOccupiedRoomsCount(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return 0, errCacheDown
	}
	return c.counters["rooms:occupied"], nil
}

func (c *fakeCache) IncrementActiveUsers(ctx context.Context) (int64, error) {
	return c.bump("users:active", 1)
}

func (c *fakeCache) DecrementActiveUsers(ctx context.Context) (int64, error) {
	return c.bump("users:active", -1)
}

func (c *fakeCache) GetActiveUsersCount(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return 0, errCacheDown
	}
	return c.counters["users:active"], nil
}

func (c *fakeCache) bump(key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return 0, errCacheDown
	}
	c.counters[key] += delta
	if c.counters[key] < 0 {
		c.counters[key] = 0
	}
	return c.counters[key], nil
}

func (c *fakeCache) counter(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key]
}

type fakeNotifier struct {
	mu            sync.Mutex
	calls         int
	lastRecipient string
	err           error
}

func (n *fakeNotifier) SendReservationConfirmation(ctx context.Context, reservation *entity.Reservation, recipientEmail string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.lastRecipient = recipientEmail
	return n.err
}

type fakeRoomRepo struct {
	rooms map[string]*entity.Room
}

func (r *fakeRoomRepo) FindByID(ctx context.Context, id string) (*entity.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

func (r *fakeRoomRepo) FindAvailable(ctx context.Context) ([]entity.Room, error) {
	var available []entity.Room
	for _, room := range r.rooms {
		if room.IsAvailable && !room.IsMaintenance {
			available = append(available, *room)
		}
	}
	return available, nil
}

type fakeCategoryRepo struct {
	categories map[string]*entity.RoomCategory
}

func (r *fakeCategoryRepo) GetByCode(ctx context.Context, code string) (*entity.RoomCategory, error) {
	category, ok := r.categories[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

type fakeDocumentTypeRepo struct {
	codes map[string]bool
}

func (r *fakeDocumentTypeRepo) GetByCode(ctx context.Context, code string) (*entity.DocumentType, error) {
	if !r.codes[code] {
		return nil, gorm.ErrRecordNotFound
	}
	return &entity.DocumentType{Code: code, Name: code}, nil
}

// env bundles the fakes behind a fully wired orchestrator
type env struct {
	reservations *fakeReservationRepo
	guests       *fakeGuestRepo
	rooms        *fakeRoomRepo
	categories   *fakeCategoryRepo
	docTypes     *fakeDocumentTypeRepo
	cache        *fakeCache
	notifier     *fakeNotifier

	detector     *usecase.ConflictDetector
	orchestrator *usecase.BookingOrchestrator
	availability *usecase.AvailabilityService
}

func newEnv() *env {
	e := &env{
		reservations: &fakeReservationRepo{},
		guests:       &fakeGuestRepo{registered: make(map[string]bool)},
		rooms:        &fakeRoomRepo{rooms: make(map[string]*entity.Room)},
		categories:   &fakeCategoryRepo{categories: make(map[string]*entity.RoomCategory)},
		docTypes:     &fakeDocumentTypeRepo{codes: map[string]bool{"passport": true, "dni": true}},
		cache:        newFakeCache(),
		notifier:     &fakeNotifier{},
	}

	log := logger.NewLogger()
	e.detector = usecase.NewConflictDetector(e.reservations, e.guests)
	e.availability = usecase.NewAvailabilityService(e.reservations, e.rooms, e.cache, log, 10*time.Minute, 5*time.Minute)
	e.orchestrator = usecase.NewBookingOrchestrator(
		e.reservations,
		e.guests,
		e.rooms,
		e.categories,
		e.docTypes,
		e.cache,
		e.notifier,
		e.detector,
		newTestMetrics(),
		log,
	)
	return e
}

func validInput(roomID string) *entity.ReservationInput {
	return &entity.ReservationInput{
		UserID:       "user-1",
		RoomID:       roomID,
		CheckInDate:  day("2025-01-10"),
		CheckOutDate: day("2025-01-12"),
		TotalPrice:   180,
	}
}
