package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

// Store хранилище в памяти процесса за теми же интерфейсами, что и PostgreSQL-репозитории.
// Используется при storage.driver = "memory" и в тестах. Каждый экземпляр независим.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

type state struct {
	providers map[int64]domain.Provider
	services  map[int64]domain.Service
	windows   map[int64]domain.AvailabilityWindow
	bookings  map[int64]domain.Booking
	reviews   map[int64]domain.Review
	payments  map[int64]domain.Payment

	lastID int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func newState() *state {
	return &state{
		providers: make(map[int64]domain.Provider),
		services:  make(map[int64]domain.Service),
		windows:   make(map[int64]domain.AvailabilityWindow),
		bookings:  make(map[int64]domain.Booking),
		reviews:   make(map[int64]domain.Review),
		payments:  make(map[int64]domain.Payment),
	}
}

// clone копирует состояние для отката транзакции.
// Значения хранятся по значению, указательные поля внутри никогда не изменяются на месте.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.providers {
		c.providers[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.windows {
		c.windows[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	c.lastID = s.lastID
	return c
}

func (s *state) nextID() int64 {
	s.lastID++
	return s.lastID
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock захватывает мьютекс, если вызов идет не из транзакции этого хранилища
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// AddProvider добавляет провайдера в каталог (наполнение в тестах и dev-режиме)
func (s *Store) AddProvider(p domain.Provider) *domain.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.state.nextID()
	} else if p.ID > s.state.lastID {
		s.state.lastID = p.ID
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.state.providers[p.ID] = p
	return &p
}

// AddService добавляет услугу в каталог
func (s *Store) AddService(svc domain.Service) *domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc.ID == 0 {
		svc.ID = s.state.nextID()
	} else if svc.ID > s.state.lastID {
		s.state.lastID = svc.ID
	}
	s.state.services[svc.ID] = svc
	return &svc
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Availability репозиторий окон доступности
func (s *Store) Availability() *AvailabilityRepository {
	return &AvailabilityRepository{store: s}
}

// Catalog репозиторий провайдеров и услуг
func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{store: s}
}

// Reviews репозиторий отзывов
func (s *Store) Reviews() *ReviewRepository {
	return &ReviewRepository{store: s}
}

// Payments репозиторий платежей
func (s *Store) Payments() *PaymentRepository {
	return &PaymentRepository{store: s}
}
