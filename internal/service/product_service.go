package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// catalogCacheKey holds the serialized active-product list so the POS can
// render the checkout grid without hitting postgres on every load.
const (
	catalogCacheKey = "cache:products:active"
	catalogCacheTTL = 5 * time.Minute
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	category := req.Category
	if category == "" {
		category = "general"
	}
	trackStock := true
	if req.TrackStock != nil {
		trackStock = *req.TrackStock
	}
	product := &model.Product{
		Name:       req.Name,
		Category:   category,
		CostPrice:  req.CostPrice,
		SalePrice:  req.SalePrice,
		MinCount:   req.MinCount,
		TrackStock: trackStock,
		Active:     true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error) {
	// Active-only listing is the hot POS path — serve it from cache.
	if !includeInactive && s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, catalogCacheKey).Bytes(); err == nil {
			var cached []dto.ProductResponse
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	products, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}

	if !includeInactive && s.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("product cache set failed")
			}
		}
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.MinCount != nil {
		product.MinCount = *req.MinCount
	}
	if req.TrackStock != nil {
		product.TrackStock = *req.TrackStock
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	product.Active = false
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *productService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.Debug().Err(err).Msg("product cache invalidation failed")
	}
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Category:     p.Category,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		CurrentCount: p.CurrentCount,
		MinCount:     p.MinCount,
		TrackStock:   p.TrackStock,
		Active:       p.Active,
	}
}
