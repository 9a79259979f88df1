package shipmentrepo

import (
	"context"
	"errors"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
// Updates use compare-and-swap on the version column: a stale aggregate loses
// the write and the caller retries on ports.ErrVersionConflict.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new shipment to the database with version 1.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
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

// Update saves an existing shipment, guarded by the version the aggregate was
// loaded with. Child rows are upserted by their composite keys; history is
// append-only so nothing is ever deleted here.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&ShipmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit(clause.Associations).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrVersionConflict
	}

	if err := r.upsertChildren(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) upsertChildren(ctx context.Context, dto ShipmentDTO) error {
	db := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true})

	if len(dto.Milestones) > 0 {
		if err := db.Create(&dto.Milestones).Error; err != nil {
			return err
		}
	}
	if len(dto.Holds) > 0 {
		if err := db.Create(&dto.Holds).Error; err != nil {
			return err
		}
	}
	if len(dto.Reroutes) > 0 {
		if err := db.Create(&dto.Reroutes).Error; err != nil {
			return err
		}
	}
	if len(dto.Exceptions) > 0 {
		if err := db.Create(&dto.Exceptions).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a shipment by ID.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves a shipment by the number devices scan.
func (r *GormShipmentRepository) GetByTrackingNumber(
	ctx context.Context,
	trackingNumber string,
) (*shipment.Shipment, error) {
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber is required")
	}

	var dto ShipmentDTO
	if err := r.preloaded(ctx).First(&dto, "tracking_number = ?", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMembers retrieves every shipment currently linked to a consolidation.
func (r *GormShipmentRepository) GetMembers(
	ctx context.Context,
	consolidationID kernel.UUID,
) ([]*shipment.Shipment, error) {
	if err := consolidationID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ShipmentDTO
	if err := r.preloaded(ctx).
		Order("tracking_number").
		Find(&dtos, "consolidation_id = ?", consolidationID.Bytes()).Error; err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}

	return shipments, nil
}

func (r *GormShipmentRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Milestones").
		Preload("Holds", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Reroutes", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Exceptions", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}
