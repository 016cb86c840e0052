package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/osikani/kente-storefront-api/internal/dto"
	"github.com/osikani/kente-storefront-api/internal/model"
	"github.com/osikani/kente-storefront-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

const productCacheTTL = 60 * time.Second

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:        req.Name,
		PatternName: req.PatternName,
		Price:       req.Price,
		Description: req.Description,
		Story:       req.Story,
		Category:    req.Category,
		Tags:        req.Tags,
		Images:      req.Images,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
	}
	if len(product.Images) == 0 {
		product.Images = []string{product.ImageURL}
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

// Snapshot returns the model used for cart snapshots, bypassing the
// display cache so a freshly edited price lands in new cart lines.
func (s *ProductService) Snapshot(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		Search:   req.Search,
		Category: model.Category(req.Category),
		Tag:      req.Tag,
		Featured: req.Featured,
		Sort:     req.Sort,
		Order:    req.Order,
		Limit:    req.Limit,
		Offset:   (req.Page - 1) * req.Limit,
	}
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Products: items, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.PatternName != nil {
		product.PatternName = *req.PatternName
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Story != nil {
		product.Story = *req.Story
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

// validateProduct enforces the admin-write rules: real name and pattern,
// a complete positive price map (missing a currency fails closed), a known
// category, at least one tag from the vocabulary, and a resolvable image.
func validateProduct(p *model.Product) error {
	if len(p.Name) < 3 {
		return fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidProduct)
	}
	if len(p.PatternName) < 3 {
		return fmt.Errorf("%w: pattern name must be at least 3 characters", ErrInvalidProduct)
	}
	if err := p.Price.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	if !model.ValidCategory(p.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	}
	if len(p.Tags) == 0 {
		return fmt.Errorf("%w: at least one tag required", ErrInvalidProduct)
	}
	for _, tag := range p.Tags {
		if !model.ValidTag(tag) {
			return fmt.Errorf("%w: unknown tag %q", ErrInvalidProduct, tag)
		}
	}
	if p.ImageURL == "" {
		return fmt.Errorf("%w: image required", ErrInvalidProduct)
	}
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		PatternName: p.PatternName,
		Price:       p.Price,
		Description: p.Description,
		Story:       p.Story,
		Category:    p.Category,
		Tags:        p.Tags,
		Images:      p.Images,
		ImageURL:    p.ImageURL,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
