package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
	"github.com/kmuentes1145/act8/pkg/validator"
)

// maxPrice límite de una columna DECIMAL(10,2).
var maxPrice = decimal.New(1, 8)

// ProductUseCase casos de uso CRUD para productos.
// El stock normalmente cambia vía movimientos; Update permite fijarlo a mano.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create valida y crea un producto. ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := fromRequest(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto; ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List devuelve todos los productos.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Update reemplaza todos los campos mutables, stock incluido.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := fromRequest(in)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto y sus movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func fromRequest(in dto.ProductRequest) (*entity.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, validator.Message(errs))
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return nil, fmt.Errorf("%w: precio admite como máximo 2 decimales", domain.ErrInvalidInput)
	}
	if in.Price.GreaterThanOrEqual(maxPrice) {
		return nil, fmt.Errorf("%w: precio fuera de rango", domain.ErrInvalidInput)
	}
	return &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       *in.Price,
		Stock:       *in.Stock,
		Code:        normalizeCode(in.Code),
	}, nil
}

// normalizeCode trata "" como ausencia de código, para no chocar con el índice único.
func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.TrimSpace(*code)
	if c == "" {
		return nil
	}
	return &c
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Code:        p.Code,
	}
}
