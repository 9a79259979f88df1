// Package shipmentrepo provides data transfer objects and mapping functions for shipment persistence.
// This package implements the repository pattern for the shipment domain aggregate, handling
// the conversion between domain entities and database representations.
package shipmentrepo

import (
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment aggregates.
// The tracking number carries a unique index because it is the identifier field
// devices scan; milestones and side-channel history live in child tables.
//
// LegacyStatus is the deprecated lowercase mirror of the canonical status,
// kept in the legacy "status" column for consumers that still read it. It is
// derived from the aggregate on every write and never read back into the
// domain, so the two columns cannot disagree.
type ShipmentDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber      string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	WaybillNumber       string     `gorm:"type:varchar(64)"`
	Barcode             string     `gorm:"type:varchar(64)"`
	Status              int        `gorm:"column:current_status;type:int;not null;index"`
	LegacyStatus        string     `gorm:"column:status;type:varchar(32);not null"`
	DestinationBranchID uuid.UUID  `gorm:"type:uuid;not null"`
	IsConsolidation     bool       `gorm:"not null"`
	ConsolidationID     *uuid.UUID `gorm:"type:uuid;index"`
	ConsolidationType   int        `gorm:"type:int;not null"`
	LocationKind        int        `gorm:"type:int"`
	LocationID          *uuid.UUID `gorm:"type:uuid"`
	LastScanEventID     *uuid.UUID `gorm:"type:uuid"`
	Version             int        `gorm:"type:int;not null"`

	Milestones []MilestoneDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Holds      []HoldDTO      `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Reroutes   []RerouteDTO   `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Exceptions []ExceptionDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for shipment entities.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// MilestoneDTO records when a shipment first reached a status. The composite
// key makes re-saves upsert instead of duplicating rows.
type MilestoneDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status     int       `gorm:"type:int;primaryKey"`
	OccurredAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for milestone entries.
func (MilestoneDTO) TableName() string {
	return "shipment_milestones"
}

// HoldDTO represents one entry of a shipment's hold history.
type HoldDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"type:int;primaryKey"`
	Reason     string    `gorm:"type:varchar(255);not null"`
	Actor      string    `gorm:"type:varchar(255)"`
	HeldAt     time.Time `gorm:"not null"`
	ReleasedAt *time.Time
	ReleasedBy string `gorm:"type:varchar(255)"`
}

// TableName specifies the database table name for hold entries.
func (HoldDTO) TableName() string {
	return "shipment_holds"
}

// RerouteDTO represents one entry of a shipment's reroute history.
type RerouteDTO struct {
	ShipmentID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq          int       `gorm:"type:int;primaryKey"`
	FromBranchID uuid.UUID `gorm:"type:uuid;not null"`
	ToBranchID   uuid.UUID `gorm:"type:uuid;not null"`
	Actor        string    `gorm:"type:varchar(255)"`
	ReroutedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for reroute entries.
func (RerouteDTO) TableName() string {
	return "shipment_reroutes"
}

// ExceptionDTO represents one entry of a shipment's exception history.
type ExceptionDTO struct {
	ShipmentID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq            int       `gorm:"type:int;primaryKey"`
	Category       string    `gorm:"type:varchar(255);not null"`
	Severity       int       `gorm:"type:int;not null"`
	Notes          string    `gorm:"type:text"`
	FlaggedAt      time.Time `gorm:"not null"`
	ResolutionType string    `gorm:"type:varchar(255)"`
	ResolvedAt     *time.Time
	ResolvedBy     string `gorm:"type:varchar(255)"`
}

// TableName specifies the database table name for exception entries.
func (ExceptionDTO) TableName() string {
	return "shipment_exceptions"
}

// fromDomain converts a shipment domain aggregate to its database representation.
func fromDomain(aggregate *shipment.Shipment) ShipmentDTO {
	shipmentID := aggregate.ID().Bytes()

	milestones := make([]MilestoneDTO, 0, len(aggregate.Milestones()))
	for status, at := range aggregate.Milestones() {
		milestones = append(milestones, MilestoneDTO{
			ShipmentID: shipmentID,
			Status:     int(status),
			OccurredAt: at,
		})
	}

	holds := make([]HoldDTO, 0, len(aggregate.Holds()))
	for i, h := range aggregate.Holds() {
		holds = append(holds, HoldDTO{
			ShipmentID: shipmentID,
			Seq:        i + 1,
			Reason:     h.Reason(),
			Actor:      h.Actor(),
			HeldAt:     h.HeldAt(),
			ReleasedAt: h.ReleasedAt(),
			ReleasedBy: h.ReleasedBy(),
		})
	}

	reroutes := make([]RerouteDTO, 0, len(aggregate.Reroutes()))
	for i, r := range aggregate.Reroutes() {
		reroutes = append(reroutes, RerouteDTO{
			ShipmentID:   shipmentID,
			Seq:          i + 1,
			FromBranchID: r.FromBranchID().Bytes(),
			ToBranchID:   r.ToBranchID().Bytes(),
			Actor:        r.Actor(),
			ReroutedAt:   r.ReroutedAt(),
		})
	}

	exceptions := make([]ExceptionDTO, 0, len(aggregate.Exceptions()))
	for i, e := range aggregate.Exceptions() {
		exceptions = append(exceptions, ExceptionDTO{
			ShipmentID:     shipmentID,
			Seq:            i + 1,
			Category:       e.Category(),
			Severity:       int(e.Severity()),
			Notes:          e.Notes(),
			FlaggedAt:      e.FlaggedAt(),
			ResolutionType: e.ResolutionType(),
			ResolvedAt:     e.ResolvedAt(),
			ResolvedBy:     e.ResolvedBy(),
		})
	}

	var consolidationID *uuid.UUID
	if id := aggregate.ConsolidationID(); id != nil {
		raw := id.Bytes()
		consolidationID = &raw
	}

	var locationKind int
	var locationID *uuid.UUID
	if loc := aggregate.CurrentLocation(); loc != nil {
		locationKind = int(loc.Kind())
		raw := loc.ID().Bytes()
		locationID = &raw
	}

	var lastScanEventID *uuid.UUID
	if id := aggregate.LastScanEventID(); id != nil {
		raw := id.Bytes()
		lastScanEventID = &raw
	}

	return ShipmentDTO{
		ID:                  shipmentID,
		TrackingNumber:      aggregate.TrackingNumber(),
		WaybillNumber:       aggregate.WaybillNumber(),
		Barcode:             aggregate.Barcode(),
		Status:              int(aggregate.Status()),
		LegacyStatus:        aggregate.LegacyStatus(),
		DestinationBranchID: aggregate.DestinationBranchID().Bytes(),
		IsConsolidation:     aggregate.IsConsolidation(),
		ConsolidationID:     consolidationID,
		ConsolidationType:   int(aggregate.ConsolidationType()),
		LocationKind:        locationKind,
		LocationID:          locationID,
		LastScanEventID:     lastScanEventID,
		Version:             aggregate.Version(),
		Milestones:          milestones,
		Holds:               holds,
		Reroutes:            reroutes,
		Exceptions:          exceptions,
	}
}

// toDomain converts a database DTO to a shipment domain aggregate.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	destinationBranchID, err := kernel.UUIDFromBytes(dto.DestinationBranchID[:])
	if err != nil {
		return nil, err
	}

	milestones := make(map[shipment.Status]time.Time, len(dto.Milestones))
	for _, m := range dto.Milestones {
		milestones[shipment.Status(m.Status)] = m.OccurredAt
	}

	holds := make([]*shipment.Hold, 0, len(dto.Holds))
	for _, h := range dto.Holds {
		hold, holdErr := shipment.RestoreHold(h.Reason, h.Actor, h.HeldAt, h.ReleasedAt, h.ReleasedBy)
		if holdErr != nil {
			return nil, holdErr
		}
		holds = append(holds, hold)
	}

	reroutes := make([]*shipment.Reroute, 0, len(dto.Reroutes))
	for _, r := range dto.Reroutes {
		fromBranchID, fromErr := kernel.UUIDFromBytes(r.FromBranchID[:])
		if fromErr != nil {
			return nil, fromErr
		}
		toBranchID, toErr := kernel.UUIDFromBytes(r.ToBranchID[:])
		if toErr != nil {
			return nil, toErr
		}
		reroute, rerouteErr := shipment.RestoreReroute(fromBranchID, toBranchID, r.Actor, r.ReroutedAt)
		if rerouteErr != nil {
			return nil, rerouteErr
		}
		reroutes = append(reroutes, reroute)
	}

	exceptions := make([]*shipment.ExceptionRecord, 0, len(dto.Exceptions))
	for _, e := range dto.Exceptions {
		record, exceptionErr := shipment.RestoreException(
			e.Category, shipment.Severity(e.Severity), e.Notes, e.FlaggedAt,
			e.ResolutionType, e.ResolvedAt, e.ResolvedBy)
		if exceptionErr != nil {
			return nil, exceptionErr
		}
		exceptions = append(exceptions, record)
	}

	var consolidationID *kernel.UUID
	if dto.ConsolidationID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.ConsolidationID)[:])
		if cErr != nil {
			return nil, cErr
		}
		consolidationID = &cID
	}

	var currentLocation *kernel.LocationRef
	if dto.LocationID != nil {
		locID, locErr := kernel.UUIDFromBytes((*dto.LocationID)[:])
		if locErr != nil {
			return nil, locErr
		}
		ref, refErr := kernel.NewLocationRef(kernel.LocationKind(dto.LocationKind), locID)
		if refErr != nil {
			return nil, refErr
		}
		currentLocation = &ref
	}

	var lastScanEventID *kernel.UUID
	if dto.LastScanEventID != nil {
		sID, sErr := kernel.UUIDFromBytes((*dto.LastScanEventID)[:])
		if sErr != nil {
			return nil, sErr
		}
		lastScanEventID = &sID
	}

	return shipment.RestoreShipment(
		id,
		dto.TrackingNumber,
		dto.WaybillNumber,
		dto.Barcode,
		shipment.Status(dto.Status),
		milestones,
		destinationBranchID,
		holds,
		reroutes,
		exceptions,
		dto.IsConsolidation,
		consolidationID,
		shipment.ConsolidationType(dto.ConsolidationType),
		currentLocation,
		lastScanEventID,
		dto.Version,
	)
}
