// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"groupage/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ShipmentRepoFactory provides access to the shipment repository within a transaction.
	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// ConsolidationRepoFactory provides access to the consolidation repository within a transaction.
	ConsolidationRepoFactory interface {
		ConsolidationRepository() ports.ConsolidationRepository
	}

	// ScanEventRepoFactory provides access to the scan event repository within a transaction.
	ScanEventRepoFactory interface {
		ScanEventRepository() ports.ScanEventRepository
	}

	// ShipmentUoW manages transactions for shipment-only operations: booking,
	// holds, reroutes, exceptions, cancellation and returns.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
	}

	// ShipmentUoWFactory creates new shipment unit of work instances.
	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// ConsolidationUoW manages transactions that touch a consolidation and its
	// member shipments together: both sides of a membership change must commit
	// or roll back as one.
	ConsolidationUoW interface {
		TxManager
		ConsolidationRepoFactory
		ShipmentRepoFactory
	}

	// ConsolidationUoWFactory creates new consolidation unit of work instances.
	ConsolidationUoWFactory interface {
		Create() ConsolidationUoW
	}

	// ScanUoW manages transactions for scan ingestion: the event insert (with
	// its atomic dedupe) and the shipment transition commit together.
	ScanUoW interface {
		TxManager
		ScanEventRepoFactory
		ShipmentRepoFactory
	}

	// ScanUoWFactory creates new scan unit of work instances.
	ScanUoWFactory interface {
		Create() ScanUoW
	}
)
