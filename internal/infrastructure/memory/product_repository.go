package memory

import (
	"context"
	"math"
	"sort"

	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository (fuera o dentro de una tx).
type ProductRepo struct {
	s  *Store
	tx *state
}

// NewProductRepository construye el repositorio sobre el Store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func (r *ProductRepo) run(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.s.view(fn)
}

func codeTaken(st *state, code *string, exceptID int64) bool {
	if code == nil {
		return false
	}
	for id, p := range st.products {
		if id != exceptID && p.Code != nil && *p.Code == *code {
			return true
		}
	}
	return false
}

// Create persiste un producto y le asigna ID.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.run(func(st *state) error {
		if product.Stock < 0 {
			return domain.ErrInvalidInput
		}
		if codeTaken(st, product.Code, 0) {
			return domain.ErrDuplicate
		}
		product.ID = st.nextProductID
		st.nextProductID++
		stored := *product
		stored.Code = copyString(product.Code)
		st.products[stored.ID] = stored
		return nil
	})
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.run(func(st *state) error {
		if p, ok := st.products[id]; ok {
			p.Code = copyString(p.Code)
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: dentro de una tx el Store ya está bloqueado.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List devuelve todos los productos ordenados por ID.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.run(func(st *state) error {
		list = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p.Code = copyString(p.Code)
			list = append(list, &p)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		return nil
	})
	return list, err
}

// Update reemplaza los campos mutables del producto.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.run(func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return domain.ErrNotFound
		}
		if product.Stock < 0 {
			return domain.ErrInvalidInput
		}
		if codeTaken(st, product.Code, product.ID) {
			return domain.ErrDuplicate
		}
		stored := *product
		stored.Code = copyString(product.Code)
		st.products[stored.ID] = stored
		return nil
	})
}

// Delete elimina el producto y, en cascada, sus movimientos.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.run(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		kept := st.movements[:0]
		for _, m := range st.movements {
			if m.ProductID != id {
				kept = append(kept, m)
			}
		}
		st.movements = kept
		return nil
	})
}

// AdjustStock suma delta al stock; nunca lo deja negativo.
func (r *ProductRepo) AdjustStock(_ context.Context, id int64, delta int) (int, error) {
	var stock int
	err := r.run(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if delta > 0 && p.Stock > math.MaxInt32-delta {
			return domain.ErrInvalidInput
		}
		if p.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock += delta
		st.products[id] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}
