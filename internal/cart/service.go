package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
)

// Service exposes customer cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// service implements the cart service.
type service struct {
	repo     *Repository
	products productLoader
	logg     *logger.Logger
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

// GetCart returns the user's cart lines with totals.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	return s.buildCart(ctx, userID)
}

// AddItem puts one more unit of the product in the cart. A product not
// yet in the cart starts at quantity 1 regardless of stock; repeat adds
// are capped at the available stock.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	item, err := s.repo.FindItem(ctx, userID, productID)
	switch {
	case err == nil:
		if item.Quantity+1 > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("only %d units of %s available", product.Stock, product.SKU))
		}
		if err := s.repo.UpdateQuantity(ctx, item.ID, item.Quantity+1); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "incrementing cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
		}
		if err := s.repo.CreateItem(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}

	return s.buildCart(ctx, userID)
}

// SetQuantity overwrites the cart line quantity. Zero removes the line.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	item, err := s.repo.FindItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}

	if quantity == 0 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
		}
	} else {
		if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line")
		}
	}

	return s.buildCart(ctx, userID)
}

// RemoveItem deletes the product's cart line entirely.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	item, err := s.repo.FindItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}

	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
	}

	return s.buildCart(ctx, userID)
}

func (s *service) buildCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	lines, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart lines")
	}

	cart := &CartDTO{
		Items: make([]CartItemDTO, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product removed from the catalog; skip the orphaned line.
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart product")
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		cart.Items = append(cart.Items, CartItemDTO{
			ProductID: product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
			Stock:     product.Stock,
			InStock:   product.InStock(),
		})
		cart.Total = cart.Total.Add(lineTotal)
		cart.ItemCount += line.Quantity
	}

	return cart, nil
}
