// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the groupage system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - ScanRouter: A domain service that validates scan events against expected
//     geofences and routes them onto shipment status transitions
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
