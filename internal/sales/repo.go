package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
)

// Repository exposes sale-record persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateRecord appends one sale record. Records are never updated.
func (r *Repository) CreateRecord(ctx context.Context, record *models.SaleRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListRecords returns every sale record, newest first.
func (r *Repository) ListRecords(ctx context.Context) ([]models.SaleRecord, error) {
	var rows []models.SaleRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListRecordsByActor returns the sale records a given user completed.
func (r *Repository) ListRecordsByActor(ctx context.Context, actorID uuid.UUID) ([]models.SaleRecord, error) {
	var rows []models.SaleRecord
	err := r.db.WithContext(ctx).
		Where("actor_user_id = ?", actorID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

type summaryRow struct {
	SaleCount int64
	UnitsSold int64
	Revenue   decimal.Decimal
}

// Summarize aggregates count, units, and revenue over all sale records.
func (r *Repository) Summarize(ctx context.Context) (*Summary, error) {
	return r.summarize(ctx, r.db.WithContext(ctx).Model(&models.SaleRecord{}))
}

// SummarizeByActor aggregates a single actor's sale records.
func (r *Repository) SummarizeByActor(ctx context.Context, actorID uuid.UUID) (*Summary, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.SaleRecord{}).
		Where("actor_user_id = ?", actorID)
	return r.summarize(ctx, qb)
}

func (r *Repository) summarize(ctx context.Context, qb *gorm.DB) (*Summary, error) {
	var row summaryRow
	err := qb.
		Select("COUNT(*) AS sale_count, COALESCE(SUM(quantity), 0) AS units_sold, COALESCE(SUM(total), 0) AS revenue").
		Scan(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &Summary{
		SaleCount: row.SaleCount,
		UnitsSold: row.UnitsSold,
		Revenue:   row.Revenue,
	}, nil
}
