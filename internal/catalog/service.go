package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/config"
	"github.com/andresfontal/voltio-backend/pkg/db"
	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
	"github.com/andresfontal/voltio-backend/pkg/outbox"
	"github.com/andresfontal/voltio-backend/pkg/outbox/payloads"
)

// Service exposes catalog browse and management operations.
type Service interface {
	ListProducts(ctx context.Context, query Query) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, newStock int) (*ProductDTO, error)
	ListLowStock(ctx context.Context) ([]ProductDTO, error)
}

// service implements the catalog service.
type service struct {
	repo      *Repository
	dbClient  *db.Client
	outboxSvc *outbox.Service
	logg      *logger.Logger
	cfg       config.CatalogConfig
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, outboxSvc *outbox.Service, logg *logger.Logger, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		dbClient:  dbClient,
		outboxSvc: outboxSvc,
		logg:      logg,
		cfg:       cfg,
	}, nil
}

// ListProducts runs the search query over the catalog snapshot.
func (s *service) ListProducts(ctx context.Context, query Query) (*ProductPage, error) {
	if query.Availability != "" && !query.Availability.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid availability %q", query.Availability))
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	result := Search(products, query)
	return &ProductPage{
		Products: ToProductDTOs(result.Items),
		Page:     result.Page,
	}, nil
}

// GetProduct returns a single product by ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	dto := ToProductDTO(*product)
	return &dto, nil
}

// ListCategories returns the category index for storefront navigation.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, toCategoryDTO(category))
	}
	return out, nil
}

// CreateProduct inserts a new catalog row.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		SKU:         strings.TrimSpace(input.SKU),
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Brand:       input.Brand,
		Model:       input.Model,
		Price:       input.Price,
		Stock:       input.Stock,
		Unit:        input.Unit,
		Rating:      input.Rating,
		Tags:        stringArray(input.Tags),
		Specs:       input.Specs,
	}
	if product.Unit == "" {
		product.Unit = "pcs"
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", product.SKU))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": created.ID.String(), "sku": created.SKU})
	s.logg.Info(logCtx, "product created")

	dto := ToProductDTO(*created)
	return &dto, nil
}

// UpdateProduct applies the provided field changes to an existing product.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Subcategory != nil {
		product.Subcategory = input.Subcategory
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Model != nil {
		product.Model = input.Model
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.Tags != nil {
		product.Tags = stringArray(*input.Tags)
	}
	if input.Specs != nil {
		product.Specs = *input.Specs
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	dto := ToProductDTO(*updated)
	return &dto, nil
}

// DeleteProduct removes a product from the catalog.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

// AdjustStock overwrites a product's stock count and records the change
// as an outbox event in the same transaction.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, newStock int) (*ProductDTO, error) {
	if newStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	var adjusted *models.Product
	var delta int
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
		}
		delta = newStock - product.Stock

		if _, err := txRepo.SetStock(ctx, id, newStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating stock")
		}
		product.Stock = newStock
		adjusted = product

		return s.outboxSvc.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventStockAdjusted,
			AggregateType: enums.AggregateProduct,
			AggregateID:   adjusted.ID,
			Version:       1,
			Data: payloads.StockAdjustedEvent{
				ProductID:  adjusted.ID,
				ProductSKU: adjusted.SKU,
				Delta:      delta,
				NewStock:   newStock,
				AdjustedAt: time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"product_id": adjusted.ID.String(),
		"delta":      delta,
		"new_stock":  adjusted.Stock,
	})
	s.logg.Info(logCtx, "stock adjusted")

	dto := ToProductDTO(*adjusted)
	return &dto, nil
}

// ListLowStock returns products at or under the configured threshold.
func (s *service) ListLowStock(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListLowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing low stock products")
	}
	return ToProductDTOs(rows), nil
}
