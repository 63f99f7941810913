package memory

import (
	"sync"
	"time"

	"github.com/kmuentes1145/act8/internal/domain/entity"
)

// Store persistencia en memoria, segura para uso concurrente.
// Todas las operaciones se serializan con mu; TxRunner trabaja sobre una copia del estado
// y la publica solo si la función termina sin error.
type Store struct {
	mu    sync.Mutex
	state *state
	clock func() time.Time
}

type state struct {
	products   map[int64]entity.Product
	movements  []entity.Movement // orden de inserción (= orden de ID)
	users      map[int64]entity.User
	emailIndex map[string]int64

	nextProductID  int64
	nextMovementID int64
	nextUserID     int64
	lastStamp      time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado para fechas de movimientos y registro de usuarios.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// NewStore crea un Store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state: &state{
			products:       make(map[int64]entity.Product),
			users:          make(map[int64]entity.User),
			emailIndex:     make(map[string]int64),
			nextProductID:  1,
			nextMovementID: 1,
			nextUserID:     1,
		},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// view ejecuta fn con el estado confirmado bajo el lock.
func (s *Store) view(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// stamp devuelve una marca de tiempo no decreciente respecto a la anterior.
func (st *state) stamp(clock func() time.Time) time.Time {
	now := clock().UTC()
	if now.Before(st.lastStamp) {
		now = st.lastStamp
	}
	st.lastStamp = now
	return now
}

func (st *state) clone() *state {
	c := &state{
		products:       make(map[int64]entity.Product, len(st.products)),
		movements:      make([]entity.Movement, len(st.movements)),
		users:          make(map[int64]entity.User, len(st.users)),
		emailIndex:     make(map[string]int64, len(st.emailIndex)),
		nextProductID:  st.nextProductID,
		nextMovementID: st.nextMovementID,
		nextUserID:     st.nextUserID,
		lastStamp:      st.lastStamp,
	}
	for id, p := range st.products {
		c.products[id] = p
	}
	copy(c.movements, st.movements)
	for id, u := range st.users {
		c.users[id] = u
	}
	for email, id := range st.emailIndex {
		c.emailIndex[email] = id
	}
	return c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
