package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// ProductUseCase altas y consultas de productos. El stock NO se toca aquí:
// nace en 0 y solo cambia a través del ledger de movimientos.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create crea un producto con stock inicial 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.CostPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.productRepo.GetBySKU(in.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      in.Name,
		Stock:     0,
		MinStock:  in.MinStock,
		CostPrice: in.CostPrice,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// GetByID devuelve un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// List lista productos.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                  p.ID,
		SKU:                 p.SKU,
		Name:                p.Name,
		Stock:               p.Stock,
		MinStock:            p.MinStock,
		CostPrice:           p.CostPrice,
		Price:               p.Price,
		LastInventoryDate:   p.LastInventoryDate,
		LastInventoryStatus: p.LastInventoryStatus,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
