package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/internal/cart"
	"github.com/andresfontal/voltio-backend/internal/catalog"
	"github.com/andresfontal/voltio-backend/internal/users"
	"github.com/andresfontal/voltio-backend/pkg/db"
	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
	"github.com/andresfontal/voltio-backend/pkg/metrics"
	"github.com/andresfontal/voltio-backend/pkg/outbox"
	"github.com/andresfontal/voltio-backend/pkg/outbox/payloads"
)

// Service exposes the checkout flows and sale record reads.
type Service interface {
	CheckoutCart(ctx context.Context, actor ActorContext) (*SaleResultDTO, error)
	RecordSale(ctx context.Context, actor ActorContext, lines []SaleLineInput) (*SaleResultDTO, error)
	ListSales(ctx context.Context) ([]SaleRecordDTO, error)
	ListSalesByActor(ctx context.Context, actorID uuid.UUID) ([]SaleRecordDTO, error)
}

// service implements the sales service.
type service struct {
	repo        *Repository
	dbClient    *db.Client
	catalogRepo *catalog.Repository
	cartRepo    *cart.Repository
	usersRepo   *users.Repository
	outboxSvc   *outbox.Service
	metrics     *metrics.SalesMetrics
	logg        *logger.Logger
}

// NewService constructs a sales service instance.
func NewService(
	repo *Repository,
	dbClient *db.Client,
	catalogRepo *catalog.Repository,
	cartRepo *cart.Repository,
	usersRepo *users.Repository,
	outboxSvc *outbox.Service,
	salesMetrics *metrics.SalesMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		catalogRepo: catalogRepo,
		cartRepo:    cartRepo,
		usersRepo:   usersRepo,
		outboxSvc:   outboxSvc,
		metrics:     salesMetrics,
		logg:        logg,
	}, nil
}

// CheckoutCart converts every cart line into sale records and clears the
// cart. The whole flow runs inside one transaction.
func (s *service) CheckoutCart(ctx context.Context, actor ActorContext) (*SaleResultDTO, error) {
	lines, err := s.cartRepo.ListItems(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	inputs := make([]SaleLineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, SaleLineInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	result, err := s.completeSale(ctx, actor, enums.SaleChannelCart, inputs, true)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordSale completes an ad-hoc staff sale for the provided lines.
func (s *service) RecordSale(ctx context.Context, actor ActorContext, lines []SaleLineInput) (*SaleResultDTO, error) {
	if !actor.Role.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required to record a sale")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one sale line is required")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
	}
	return s.completeSale(ctx, actor, enums.SaleChannelStaff, lines, false)
}

// completeSale is the shared core: per line it decrements stock (guarded),
// appends a sale record and a purchase-history row, and accumulates loyalty
// points; then the points are credited and one outbox event emitted per
// record. Any failure rolls back every line.
func (s *service) completeSale(ctx context.Context, actor ActorContext, channel enums.SaleChannel, lines []SaleLineInput, clearCart bool) (*SaleResultDTO, error) {
	started := time.Now()

	result := &SaleResultDTO{Total: decimal.Zero}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txSales := s.repo.WithTx(tx)
		txCatalog := s.catalogRepo.WithTx(tx)
		txUsers := s.usersRepo.WithTx(tx)
		txCart := s.cartRepo.WithTx(tx)

		var pointsEarned int64
		soldAt := time.Now().UTC()

		for _, line := range lines {
			product, err := txCatalog.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
			}

			affected, err := txCatalog.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrementing stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for %s: %d requested, %d available", product.SKU, line.Quantity, product.Stock))
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			record := &models.SaleRecord{
				ProductID:   product.ID,
				ProductSKU:  product.SKU,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Total:       lineTotal,
				Unit:        product.Unit,
				Channel:     channel,
				ActorUserID: actor.UserID,
				ActorEmail:  actor.Email,
			}
			if err := txSales.CreateRecord(ctx, record); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending sale record")
			}

			linePoints := lineTotal.Floor().IntPart()
			pointsEarned += linePoints

			purchase := &models.Purchase{
				UserID:       actor.UserID,
				SaleRecordID: record.ID,
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     line.Quantity,
				Total:        lineTotal,
			}
			if err := txUsers.AppendPurchase(ctx, purchase); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending purchase history")
			}

			if err := s.outboxSvc.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventSaleCompleted,
				AggregateType: enums.AggregateSaleRecord,
				AggregateID:   record.ID,
				Version:       1,
				Actor: &outbox.ActorRef{
					UserID: actor.UserID,
					Email:  actor.Email,
					Role:   actor.Role.String(),
				},
				Data: payloads.SaleCompletedEvent{
					SaleRecordID:  record.ID,
					ProductID:     product.ID,
					ProductSKU:    product.SKU,
					ProductName:   product.Name,
					Quantity:      line.Quantity,
					UnitPrice:     product.Price,
					Total:         lineTotal,
					Channel:       channel,
					PointsAwarded: linePoints,
					SoldAt:        soldAt,
				},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emitting sale event")
			}

			result.Total = result.Total.Add(lineTotal)
			result.RecordIDs = append(result.RecordIDs, record.ID)
			result.Records = append(result.Records, ToRecordDTO(*record))
		}

		if pointsEarned > 0 {
			if err := txUsers.CreditPoints(ctx, actor.UserID, pointsEarned); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "crediting loyalty points")
			}
		}
		result.PointsEarned = pointsEarned

		if clearCart {
			if err := txCart.Clear(ctx, actor.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure(channel.String())
		return nil, err
	}

	s.metrics.IncSuccess(channel.String())
	s.metrics.ObserveDuration(channel.String(), time.Since(started))
	s.metrics.AddPoints(channel.String(), result.PointsEarned)
	for _, record := range result.Records {
		s.metrics.AddUnits(channel.String(), record.Quantity)
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"channel":       channel.String(),
		"total":         result.Total.String(),
		"points_earned": result.PointsEarned,
		"record_count":  len(result.RecordIDs),
	})
	s.logg.Info(logCtx, "sale completed")

	return result, nil
}

// ListSales returns every sale record, newest first.
func (s *service) ListSales(ctx context.Context) ([]SaleRecordDTO, error) {
	rows, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing sale records")
	}
	return ToRecordDTOs(rows), nil
}

// ListSalesByActor returns the acting user's sale records.
func (s *service) ListSalesByActor(ctx context.Context, actorID uuid.UUID) ([]SaleRecordDTO, error) {
	rows, err := s.repo.ListRecordsByActor(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing actor sale records")
	}
	return ToRecordDTOs(rows), nil
}
