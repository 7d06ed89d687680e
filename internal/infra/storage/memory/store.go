// Package memory реализует хранилище в памяти с теми же контрактами, что и PostgreSQL репозитории.
// Используется для локального запуска (storage.driver = "memory") и в тестах usecase'ов.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Store общее состояние всех репозиториев в памяти
type Store struct {
	mu sync.RWMutex

	nextEventTypeID int64
	nextRuleID      int64
	nextOverrideID  int64

	eventTypes map[int64]*domain.EventType
	weekly     map[int64][]*domain.WeeklyRule
	overrides  map[int64]map[types.Date]*domain.DateOverride
	bookings   map[uuid.UUID]*domain.Booking

	// значения до изменения открытыми транзакциями
	pendingEventTypes *pending[int64, *domain.EventType]
	pendingWeekly     *pending[int64, []*domain.WeeklyRule]
	pendingOverrides  *pending[overrideKey, *domain.DateOverride]
	pendingBookings   *pending[uuid.UUID, *domain.Booking]

	locks *hostLocks
}

type overrideKey struct {
	hostID int64
	date   types.Date
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		eventTypes: make(map[int64]*domain.EventType),
		weekly:     make(map[int64][]*domain.WeeklyRule),
		overrides:  make(map[int64]map[types.Date]*domain.DateOverride),
		bookings:   make(map[uuid.UUID]*domain.Booking),

		pendingEventTypes: newPending[int64, *domain.EventType](),
		pendingWeekly:     newPending[int64, []*domain.WeeklyRule](),
		pendingOverrides:  newPending[overrideKey, *domain.DateOverride](),
		pendingBookings:   newPending[uuid.UUID, *domain.Booking](),

		locks: newHostLocks(),
	}
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// Rules репозиторий правил доступности
func (s *Store) Rules() *RulesRepository {
	return &RulesRepository{s: s}
}

// EventTypes репозиторий типов событий
func (s *Store) EventTypes() *EventTypeRepository {
	return &EventTypeRepository{s: s}
}

// TxManager менеджер транзакций с журналом отката
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func cloneEventType(e *domain.EventType) *domain.EventType {
	c := *e
	return &c
}

func cloneRule(r *domain.WeeklyRule) *domain.WeeklyRule {
	c := *r
	return &c
}

func cloneOverride(o *domain.DateOverride) *domain.DateOverride {
	c := *o
	c.Intervals = append([]domain.LocalInterval(nil), o.Intervals...)
	return &c
}
