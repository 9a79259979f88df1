package scaneventrepo

import (
	"context"
	"errors"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormScanEventRepository implements ScanEventRepository using GORM.
// Requires the connection to be opened with TranslateError so a sync key
// collision surfaces as gorm.ErrDuplicatedKey.
type GormScanEventRepository struct {
	db *gorm.DB
}

// NewGormScanEventRepository creates a new GORM scan event repository.
func NewGormScanEventRepository(db *gorm.DB) *GormScanEventRepository {
	return &GormScanEventRepository{db: db}
}

// Add inserts a scan event. The insert and the idempotency check are one
// statement: a second event with the same offline sync key hits the unique
// index and returns ports.ErrDuplicateScanEvent.
func (r *GormScanEventRepository) Add(ctx context.Context, event *scanevent.ScanEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateScanEvent
		}
		return err
	}

	return nil
}

// GetByOfflineSyncKey retrieves the event a device already submitted under the
// given idempotency token.
func (r *GormScanEventRepository) GetByOfflineSyncKey(
	ctx context.Context,
	offlineSyncKey string,
) (*scanevent.ScanEvent, error) {
	if offlineSyncKey == "" {
		return nil, errs.NewValueIsRequiredError("offlineSyncKey is required")
	}

	var dto ScanEventDTO
	if err := r.db.WithContext(ctx).First(&dto, "offline_sync_key = ?", offlineSyncKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("scanEvent", offlineSyncKey)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByShipment retrieves a shipment's scan history in the order the scans
// physically happened.
func (r *GormScanEventRepository) GetByShipment(
	ctx context.Context,
	shipmentID kernel.UUID,
) ([]*scanevent.ScanEvent, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ScanEventDTO
	if err := r.db.WithContext(ctx).
		Order("occurred_at").
		Find(&dtos, "shipment_id = ?", shipmentID.Bytes()).Error; err != nil {
		return nil, err
	}

	events := make([]*scanevent.ScanEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
