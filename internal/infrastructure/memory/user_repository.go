package memory

import (
	"context"
	"sort"

	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio sobre el Store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

// Create persiste un usuario; el email es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.emailIndex[user.Email]; ok {
			return domain.ErrEmailAlreadyExists
		}
		user.ID = st.nextUserID
		st.nextUserID++
		user.CreatedAt = st.stamp(r.s.clock)
		st.users[user.ID] = *user
		st.emailIndex[user.Email] = user.ID
		return nil
	})
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.s.view(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByEmail obtiene un usuario por email; (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.view(func(st *state) error {
		if id, ok := st.emailIndex[email]; ok {
			u := st.users[id]
			out = &u
		}
		return nil
	})
	return out, err
}

// List devuelve los usuarios más recientes primero.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var list []*entity.User
	err := r.s.view(func(st *state) error {
		list = make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			list = append(list, &u)
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ID > list[j].ID
		})
		return nil
	})
	return list, err
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	return r.s.view(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(st.users, id)
		delete(st.emailIndex, u.Email)
		return nil
	})
}
