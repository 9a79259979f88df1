// Package consolidationrepo provides data transfer objects and mapping functions for
// consolidation persistence. Memberships and the deconsolidation audit log are child
// tables of the consolidation aggregate.
package consolidationrepo

import (
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ConsolidationDTO represents the database structure for persisting consolidation aggregates.
type ConsolidationDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference           string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ConsolidationType   int       `gorm:"type:int;not null"`
	MotherShipmentID    uuid.UUID `gorm:"type:uuid;not null"`
	OriginBranchID      uuid.UUID `gorm:"type:uuid;not null"`
	DestinationBranchID uuid.UUID `gorm:"type:uuid;not null"`
	MaxPieces           int       `gorm:"type:int;not null"`
	MaxWeightKg         float64   `gorm:"not null"`
	MaxVolumeM3         float64   `gorm:"not null"`
	CutoffAt            time.Time `gorm:"not null;index"`
	Status              int       `gorm:"type:int;not null;index"`
	TransportMode       int       `gorm:"type:int"`
	TransportDocNumber  string    `gorm:"type:varchar(64)"`
	TransportCarrier    string    `gorm:"type:varchar(255)"`
	DispatchedAt        *time.Time
	ArrivedAt           *time.Time
	Version             int `gorm:"type:int;not null"`

	Memberships []MembershipDTO           `gorm:"foreignKey:ConsolidationID;constraint:OnDelete:CASCADE"`
	LogEntries  []DeconsolidationEventDTO `gorm:"foreignKey:ConsolidationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for consolidation entities.
func (ConsolidationDTO) TableName() string {
	return "consolidations"
}

// MembershipDTO represents one baby shipment's membership in a consolidation,
// including its discrepancy record when one was raised during unpack.
type MembershipDTO struct {
	ConsolidationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID      uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Sequence        int       `gorm:"type:int;not null"`
	WeightKg        float64   `gorm:"not null"`
	VolumeM3        float64   `gorm:"not null"`
	Status          int       `gorm:"type:int;not null"`
	AddedAt         time.Time `gorm:"not null"`
	RemovedAt       *time.Time

	DiscrepancyKind       string `gorm:"type:varchar(32)"`
	DiscrepancyNotes      string `gorm:"type:text"`
	DiscrepancyRecordedAt *time.Time
	DiscrepancyResolution string `gorm:"type:text"`
	DiscrepancyResolvedBy string `gorm:"type:varchar(255)"`
	DiscrepancyResolvedAt *time.Time
}

// TableName specifies the database table name for membership entries.
func (MembershipDTO) TableName() string {
	return "consolidation_members"
}

// DeconsolidationEventDTO represents one entry of the unpack audit log.
type DeconsolidationEventDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ConsolidationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventType       string     `gorm:"type:varchar(32);not null"`
	ShipmentID      *uuid.UUID `gorm:"type:uuid"`
	Actor           string     `gorm:"type:varchar(255)"`
	Notes           string     `gorm:"type:text"`
	OccurredAt      time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for audit log entries.
func (DeconsolidationEventDTO) TableName() string {
	return "deconsolidation_events"
}

// fromDomain converts a consolidation domain aggregate to its database representation.
func fromDomain(aggregate *consolidation.Consolidation) ConsolidationDTO {
	consolidationID := aggregate.ID().Bytes()

	memberships := make([]MembershipDTO, 0, len(aggregate.Memberships()))
	for _, m := range aggregate.Memberships() {
		dto := MembershipDTO{
			ConsolidationID: consolidationID,
			ShipmentID:      m.ShipmentID().Bytes(),
			Sequence:        m.Sequence(),
			WeightKg:        m.WeightKg(),
			VolumeM3:        m.VolumeM3(),
			Status:          int(m.Status()),
			AddedAt:         m.AddedAt(),
			RemovedAt:       m.RemovedAt(),
		}
		if d := m.Discrepancy(); d != nil {
			recordedAt := d.RecordedAt()
			dto.DiscrepancyKind = string(d.Kind())
			dto.DiscrepancyNotes = d.Notes()
			dto.DiscrepancyRecordedAt = &recordedAt
			dto.DiscrepancyResolution = d.Resolution()
			dto.DiscrepancyResolvedBy = d.ResolvedBy()
			dto.DiscrepancyResolvedAt = d.ResolvedAt()
		}
		memberships = append(memberships, dto)
	}

	logEntries := make([]DeconsolidationEventDTO, 0, len(aggregate.DeconsolidationLog()))
	for _, e := range aggregate.DeconsolidationLog() {
		var shipmentID *uuid.UUID
		if id := e.ShipmentID(); id != nil {
			raw := id.Bytes()
			shipmentID = &raw
		}
		logEntries = append(logEntries, DeconsolidationEventDTO{
			ID:              e.ID().Bytes(),
			ConsolidationID: consolidationID,
			EventType:       string(e.Type()),
			ShipmentID:      shipmentID,
			Actor:           e.Actor(),
			Notes:           e.Notes(),
			OccurredAt:      e.OccurredAt(),
		})
	}

	dto := ConsolidationDTO{
		ID:                  consolidationID,
		Reference:           aggregate.Reference(),
		ConsolidationType:   int(aggregate.Type()),
		MotherShipmentID:    aggregate.MotherShipmentID().Bytes(),
		OriginBranchID:      aggregate.OriginBranchID().Bytes(),
		DestinationBranchID: aggregate.DestinationBranchID().Bytes(),
		MaxPieces:           aggregate.Capacity().MaxPieces(),
		MaxWeightKg:         aggregate.Capacity().MaxWeightKg(),
		MaxVolumeM3:         aggregate.Capacity().MaxVolumeM3(),
		CutoffAt:            aggregate.CutoffAt(),
		Status:              int(aggregate.Status()),
		DispatchedAt:        aggregate.DispatchedAt(),
		ArrivedAt:           aggregate.ArrivedAt(),
		Version:             aggregate.Version(),
		Memberships:         memberships,
		LogEntries:          logEntries,
	}

	if transport := aggregate.Transport(); transport != nil {
		dto.TransportMode = int(transport.Mode())
		dto.TransportDocNumber = transport.DocumentNumber()
		dto.TransportCarrier = transport.CarrierName()
	}

	return dto
}

// toDomain converts a database DTO to a consolidation domain aggregate.
func toDomain(dto ConsolidationDTO) (*consolidation.Consolidation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	motherShipmentID, err := kernel.UUIDFromBytes(dto.MotherShipmentID[:])
	if err != nil {
		return nil, err
	}
	originBranchID, err := kernel.UUIDFromBytes(dto.OriginBranchID[:])
	if err != nil {
		return nil, err
	}
	destinationBranchID, err := kernel.UUIDFromBytes(dto.DestinationBranchID[:])
	if err != nil {
		return nil, err
	}

	capacity, err := consolidation.NewCapacity(dto.MaxPieces, dto.MaxWeightKg, dto.MaxVolumeM3)
	if err != nil {
		return nil, err
	}

	memberships := make([]*consolidation.Membership, 0, len(dto.Memberships))
	for _, m := range dto.Memberships {
		membership, memberErr := membershipToDomain(m)
		if memberErr != nil {
			return nil, memberErr
		}
		memberships = append(memberships, membership)
	}

	logEntries := make([]*consolidation.DeconsolidationEvent, 0, len(dto.LogEntries))
	for _, e := range dto.LogEntries {
		entry, logErr := logEntryToDomain(e)
		if logErr != nil {
			return nil, logErr
		}
		logEntries = append(logEntries, entry)
	}

	var transport *consolidation.TransportDetails
	if dto.TransportMode != 0 {
		details, transportErr := consolidation.NewTransportDetails(
			consolidation.TransportMode(dto.TransportMode), dto.TransportDocNumber, dto.TransportCarrier)
		if transportErr != nil {
			return nil, transportErr
		}
		transport = &details
	}

	return consolidation.RestoreConsolidation(
		id,
		dto.Reference,
		shipment.ConsolidationType(dto.ConsolidationType),
		motherShipmentID,
		originBranchID,
		destinationBranchID,
		capacity,
		dto.CutoffAt,
		consolidation.Status(dto.Status),
		memberships,
		transport,
		dto.DispatchedAt,
		dto.ArrivedAt,
		logEntries,
		dto.Version,
	)
}

// membershipToDomain converts a membership DTO to its domain entity.
func membershipToDomain(dto MembershipDTO) (*consolidation.Membership, error) {
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}

	var discrepancy *consolidation.Discrepancy
	if dto.DiscrepancyRecordedAt != nil {
		discrepancy, err = consolidation.RestoreDiscrepancy(
			consolidation.DiscrepancyKind(dto.DiscrepancyKind),
			dto.DiscrepancyNotes,
			*dto.DiscrepancyRecordedAt,
			dto.DiscrepancyResolution,
			dto.DiscrepancyResolvedBy,
			dto.DiscrepancyResolvedAt,
		)
		if err != nil {
			return nil, err
		}
	}

	return consolidation.RestoreMembership(
		shipmentID,
		dto.Sequence,
		dto.WeightKg,
		dto.VolumeM3,
		consolidation.MembershipStatus(dto.Status),
		dto.AddedAt,
		dto.RemovedAt,
		discrepancy,
	)
}

// logEntryToDomain converts an audit log DTO to its domain entity.
func logEntryToDomain(dto DeconsolidationEventDTO) (*consolidation.DeconsolidationEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var shipmentID *kernel.UUID
	if dto.ShipmentID != nil {
		sID, sErr := kernel.UUIDFromBytes((*dto.ShipmentID)[:])
		if sErr != nil {
			return nil, sErr
		}
		shipmentID = &sID
	}

	return consolidation.RestoreDeconsolidationEvent(
		id,
		consolidation.DeconsolidationEventType(dto.EventType),
		shipmentID,
		dto.Actor,
		dto.Notes,
		dto.OccurredAt,
	)
}
