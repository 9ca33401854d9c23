package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/internal/catalog"
	"github.com/andresfontal/voltio-backend/internal/sales"
	"github.com/andresfontal/voltio-backend/internal/users"
	"github.com/andresfontal/voltio-backend/pkg/db/models"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
)

// AdminDashboardDTO is the storewide view: totals plus restock alerts.
type AdminDashboardDTO struct {
	Summary      sales.Summary        `json:"summary"`
	UserCount    int64                `json:"user_count"`
	ProductCount int64                `json:"product_count"`
	LowStock     []catalog.ProductDTO `json:"low_stock"`
}

// SellerDashboardDTO aggregates the acting seller's own sales.
type SellerDashboardDTO struct {
	Summary sales.Summary         `json:"summary"`
	Recent  []sales.SaleRecordDTO `json:"recent_sales"`
}

// CustomerDashboardDTO shows the loyalty balance and purchase history.
type CustomerDashboardDTO struct {
	Points    int64               `json:"points"`
	Purchases []users.PurchaseDTO `json:"purchases"`
}

// recentSalesLimit caps the seller dashboard's recent-sales list.
const recentSalesLimit = 20

type salesReader interface {
	Summarize(ctx context.Context) (*sales.Summary, error)
	SummarizeByActor(ctx context.Context, actorID uuid.UUID) (*sales.Summary, error)
	ListRecordsByActor(ctx context.Context, actorID uuid.UUID) ([]models.SaleRecord, error)
}

type catalogReader interface {
	ListLowStock(ctx context.Context, threshold int) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type usersReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
	CountUsers(ctx context.Context) (int64, error)
}

// Service exposes the role-specific dashboard reads.
type Service interface {
	Admin(ctx context.Context) (*AdminDashboardDTO, error)
	Seller(ctx context.Context, actorID uuid.UUID) (*SellerDashboardDTO, error)
	Customer(ctx context.Context, userID uuid.UUID) (*CustomerDashboardDTO, error)
}

type service struct {
	sales             salesReader
	catalog           catalogReader
	users             usersReader
	lowStockThreshold int
	logg              *logger.Logger
}

// NewService constructs the dashboard service.
func NewService(salesRepo salesReader, catalogRepo catalogReader, usersRepo usersReader, lowStockThreshold int, logg *logger.Logger) (Service, error) {
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if lowStockThreshold < 0 {
		lowStockThreshold = 0
	}
	return &service{
		sales:             salesRepo,
		catalog:           catalogRepo,
		users:             usersRepo,
		lowStockThreshold: lowStockThreshold,
		logg:              logg,
	}, nil
}

func (s *service) Admin(ctx context.Context) (*AdminDashboardDTO, error) {
	summary, err := s.sales.Summarize(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarizing sales")
	}
	userCount, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting users")
	}
	productCount, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting products")
	}
	lowStock, err := s.catalog.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing low stock")
	}

	return &AdminDashboardDTO{
		Summary:      *summary,
		UserCount:    userCount,
		ProductCount: productCount,
		LowStock:     catalog.ToProductDTOs(lowStock),
	}, nil
}

func (s *service) Seller(ctx context.Context, actorID uuid.UUID) (*SellerDashboardDTO, error) {
	summary, err := s.sales.SummarizeByActor(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarizing seller sales")
	}
	records, err := s.sales.ListRecordsByActor(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing seller sales")
	}
	if len(records) > recentSalesLimit {
		records = records[:recentSalesLimit]
	}

	recent := make([]sales.SaleRecordDTO, 0, len(records))
	for _, record := range records {
		recent = append(recent, sales.ToRecordDTO(record))
	}

	return &SellerDashboardDTO{
		Summary: *summary,
		Recent:  recent,
	}, nil
}

func (s *service) Customer(ctx context.Context, userID uuid.UUID) (*CustomerDashboardDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	rows, err := s.users.ListPurchases(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing purchases")
	}

	purchases := make([]users.PurchaseDTO, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, users.PurchaseFromModel(row))
	}

	return &CustomerDashboardDTO{
		Points:    user.Points,
		Purchases: purchases,
	}, nil
}
