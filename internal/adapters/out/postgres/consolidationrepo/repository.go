package consolidationrepo

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConsolidationRepository implements ConsolidationRepository using GORM.
// The version column serializes concurrent writers: two hubs adding members to
// the same mother race on it, and the loser retries against fresh totals.
type GormConsolidationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormConsolidationRepository creates a new GORM consolidation repository.
func NewGormConsolidationRepository(db *gorm.DB, tracker aggregateTracker) *GormConsolidationRepository {
	return &GormConsolidationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new consolidation to the database with version 1.
func (r *GormConsolidationRepository) Add(ctx context.Context, aggregate *consolidation.Consolidation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing consolidation, guarded by the version the aggregate
// was loaded with. Memberships are upserted by their composite keys and the
// audit log is append-only, so child rows are never deleted.
func (r *GormConsolidationRepository) Update(ctx context.Context, aggregate *consolidation.Consolidation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&ConsolidationDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit(clause.Associations).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrVersionConflict
	}

	db := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true})
	if len(dto.Memberships) > 0 {
		if err := db.Create(&dto.Memberships).Error; err != nil {
			return err
		}
	}
	if len(dto.LogEntries) > 0 {
		if err := db.Create(&dto.LogEntries).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a consolidation by ID.
func (r *GormConsolidationRepository) Get(ctx context.Context, id kernel.UUID) (*consolidation.Consolidation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ConsolidationDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("consolidation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenPastCutoff retrieves every open consolidation whose cutoff time has
// passed, feeding the periodic auto-lock sweep.
func (r *GormConsolidationRepository) GetOpenPastCutoff(
	ctx context.Context,
	now time.Time,
) ([]*consolidation.Consolidation, error) {
	var dtos []ConsolidationDTO
	if err := r.preloaded(ctx).
		Order("cutoff_at").
		Find(&dtos, "status = ? AND cutoff_at <= ?", int(consolidation.StatusOpen), now).Error; err != nil {
		return nil, err
	}

	consolidations := make([]*consolidation.Consolidation, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		consolidations = append(consolidations, c)
	}

	return consolidations, nil
}

func (r *GormConsolidationRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB { return db.Order("sequence") }).
		Preload("LogEntries", func(db *gorm.DB) *gorm.DB { return db.Order("occurred_at") })
}
