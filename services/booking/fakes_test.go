package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"
	"glowbook/services/payment"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// memStore is an in-memory stand-in for the mongo repositories, mirroring
// their conditional-transition semantics.
type memStore struct {
	mu           sync.Mutex
	intents      map[string]*models.BookingIntent
	bookings     map[string]*models.Booking
	blockedSlots map[string]models.BlockedTimeSlot
	blockedDates map[string]models.BlockedDate
	down         bool  // simulate a store outage
	createErr    error // forced CreateIntent failure
	confirmErr   error // forced ConfirmIntent failure, cleared after one use
}

func newMemStore() *memStore {
	return &memStore{
		intents:      make(map[string]*models.BookingIntent),
		bookings:     make(map[string]*models.Booking),
		blockedSlots: make(map[string]models.BlockedTimeSlot),
		blockedDates: make(map[string]models.BlockedDate),
	}
}

var errStoreDown = errors.New("store unreachable")

func slotKey(date, timeSlot string) string { return date + "|" + timeSlot }

func (s *memStore) CreateIntent(ctx context.Context, intent *models.BookingIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errStoreDown
	}
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.intents[intent.Reference]; exists {
		return bookingRepo.ErrDuplicateReference
	}
	cp := *intent
	s.intents[intent.Reference] = &cp
	return nil
}

func (s *memStore) GetIntentByReference(ctx context.Context, reference string) (*models.BookingIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	intent, ok := s.intents[reference]
	if !ok {
		return nil, bookingRepo.ErrIntentNotFound
	}
	cp := *intent
	return &cp, nil
}

func (s *memStore) MarkIntentFailed(ctx context.Context, reference, reason string) (*models.BookingIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	intent, ok := s.intents[reference]
	if !ok {
		return nil, bookingRepo.ErrIntentNotFound
	}
	if intent.Status == models.IntentPending {
		intent.Status = models.IntentFailed
		intent.FailureReason = reason
		intent.UpdatedAt = time.Now()
	}
	cp := *intent
	return &cp, nil
}

func (s *memStore) ConfirmIntent(ctx context.Context, intent *models.BookingIntent) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	if s.confirmErr != nil {
		// The real repository runs the confirm inside a transaction, so a
		// failure leaves every collection untouched.
		err := s.confirmErr
		s.confirmErr = nil
		return nil, err
	}
	stored, ok := s.intents[intent.Reference]
	if !ok {
		return nil, bookingRepo.ErrIntentNotFound
	}
	if stored.Status != models.IntentPending {
		return nil, bookingRepo.ErrAlreadyResolved
	}

	occupied := false
	for _, b := range s.bookings {
		if b.Date == intent.Date && b.TimeSlot == intent.TimeSlot && b.Status == "confirmed" && !b.Conflict {
			occupied = true
			break
		}
	}

	now := time.Now()
	stored.Status = models.IntentConfirmed
	stored.UpdatedAt = now
	booking := &models.Booking{
		ID:            uuid.New().String(),
		Reference:     intent.Reference,
		Date:          intent.Date,
		TimeSlot:      intent.TimeSlot,
		Customer:      intent.Customer,
		Services:      intent.Services,
		TotalAmount:   intent.TotalAmount,
		DepositAmount: intent.DepositAmount,
		Currency:      intent.Currency,
		Status:        "confirmed",
		Conflict:      occupied,
		CreatedAt:     now,
	}
	s.bookings[intent.Reference] = booking

	key := slotKey(intent.Date, intent.TimeSlot)
	if _, exists := s.blockedSlots[key]; !exists {
		s.blockedSlots[key] = models.BlockedTimeSlot{
			Date:      intent.Date,
			TimeSlot:  intent.TimeSlot,
			Reason:    "booked",
			Source:    models.BlockSourcePayment,
			CreatedAt: now,
		}
	}

	cp := *booking
	return &cp, nil
}

func (s *memStore) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	booking, ok := s.bookings[reference]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *booking
	return &cp, nil
}

func (s *memStore) ListConfirmedByDate(ctx context.Context, date string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Date == date && b.Status == "confirmed" {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListConflicts(ctx context.Context) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Conflict {
			out = append(out, *b)
		}
	}
	return out, nil
}

// blockedRepo.Repository implementation.

func (s *memStore) CreateBlockedDate(ctx context.Context, block *models.BlockedDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errStoreDown
	}
	s.blockedDates[block.Date] = *block
	return nil
}

func (s *memStore) DeleteBlockedDate(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blockedDates, date)
	return nil
}

func (s *memStore) ListBlockedDates(ctx context.Context) ([]models.BlockedDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	var out []models.BlockedDate
	for _, b := range s.blockedDates {
		out = append(out, b)
	}
	return out, nil
}

func (s *memStore) IsDateBlocked(ctx context.Context, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return false, errStoreDown
	}
	_, blocked := s.blockedDates[date]
	return blocked, nil
}

func (s *memStore) CreateBlockedSlot(ctx context.Context, block *models.BlockedTimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errStoreDown
	}
	s.blockedSlots[slotKey(block.Date, block.TimeSlot)] = *block
	return nil
}

func (s *memStore) DeleteBlockedSlot(ctx context.Context, date, timeSlot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blockedSlots, slotKey(date, timeSlot))
	return nil
}

func (s *memStore) ListBlockedSlotsByDate(ctx context.Context, date string) ([]models.BlockedTimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	var out []models.BlockedTimeSlot
	for _, b := range s.blockedSlots {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeGateway scripts provider responses per session.
type fakeGateway struct {
	mu          sync.Mutex
	createErr   error
	verifyErr   error
	results     map[string]*payment.VerifyResult
	verifyCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{results: make(map[string]*payment.VerifyResult)}
}

func (g *fakeGateway) CreateSession(ctx context.Context, intent *models.BookingIntent) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	id := "cs_" + intent.Reference
	return &payment.Session{ID: id, CheckoutURL: "https://checkout.test/" + id}, nil
}

func (g *fakeGateway) VerifySession(ctx context.Context, sessionID string) (*payment.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if r, ok := g.results[sessionID]; ok {
		cp := *r
		return &cp, nil
	}
	return &payment.VerifyResult{Status: payment.StatusPending}, nil
}

func (g *fakeGateway) setPaid(sessionID string, amount int64, currency string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.results[sessionID] = &payment.VerifyResult{Status: payment.StatusPaid, Amount: amount, Currency: currency}
}

func (g *fakeGateway) setFailed(sessionID, detail string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.results[sessionID] = &payment.VerifyResult{Status: payment.StatusFailed, Detail: detail}
}

// mutexLocker serializes per key in-process, standing in for the Redis lock.
type mutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMutexLocker() *mutexLocker {
	return &mutexLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *mutexLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

// fakeNotifier records dispatched notifications.
type fakeNotifier struct {
	mu          sync.Mutex
	confirmed   int
	failed      int
	conflicts   int
	adminAlerts int
}

func (n *fakeNotifier) SendBookingConfirmed(ctx context.Context, booking *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed++
	return nil
}

func (n *fakeNotifier) SendBookingFailed(ctx context.Context, intent *models.BookingIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed++
	return nil
}

func (n *fakeNotifier) NotifyAdminConflict(ctx context.Context, booking *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.conflicts++
	return nil
}

func (n *fakeNotifier) NotifyAdmin(ctx context.Context, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.adminAlerts++
	return nil
}

// fakeQueue captures enqueued tasks.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *fakeQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
