package kernel

import (
	"errors"
	"fmt"
	"math"

	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

const (
	// MinLatitude is the southernmost valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the northernmost valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the westernmost valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the easternmost valid longitude in degrees.
	MaxLongitude = 180.0

	// earthRadiusMeters is the mean Earth radius used by the haversine formula.
	earthRadiusMeters = 6371000.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// ErrGeofenceIsNotConstructed is returned when attempting to use an improperly
// initialized Geofence. Geofences must be created via NewGeofence.
var ErrGeofenceIsNotConstructed = errs.NewValueIsRequiredError(
	"geofence must be created via NewGeofence constructor")

// GeoPoint represents a GPS coordinate pair in decimal degrees.
// GeoPoint is an immutable value object; the zero value is invalid and will
// fail validation - use NewGeoPoint to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(27.7172, 85.3240)
//	if err != nil {
//	    // Handle validation error
//	}
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the specified coordinates.
// Latitude must lie within [MinLatitude..MaxLatitude] and longitude within
// [MinLongitude..MaxLongitude]. Returns an error if either is out of bounds.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// IsEqual compares two geo points for exact coordinate equality.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// DistanceMeters returns the great-circle distance to another point in meters,
// computed with the haversine formula. Used by scan validation to measure how
// far a device scan landed from its expected location.
func (p GeoPoint) DistanceMeters(other GeoPoint) float64 {
	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLon := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// String returns a "lat,lon" representation suitable for logging.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.latitude, p.longitude)
}

// Validate checks the GeoPoint was properly constructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	p.longitude = longitude
	return nil
}

// Geofence represents an expected-location tolerance: a center point and a
// radius in meters. Scan events whose coordinates fall outside the fence are
// flagged for review but never rejected.
type Geofence struct { //nolint:recvcheck //using for validation
	center       GeoPoint
	radiusMeters float64
	guard        guard.ConstructorGuard
}

// NewGeofence creates a Geofence around the given center.
// The radius must be greater than zero.
func NewGeofence(center GeoPoint, radiusMeters float64) (Geofence, error) {
	if err := center.Validate(); err != nil {
		return Geofence{}, err
	}

	if radiusMeters <= 0 {
		return Geofence{}, errs.NewValueIsInvalidErrorWithCause(
			"radiusMeters is invalid",
			fmt.Errorf("%f is not greater than 0", radiusMeters),
		)
	}

	return Geofence{
		center:       center,
		radiusMeters: radiusMeters,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Center returns the fence's center point.
func (f Geofence) Center() GeoPoint {
	return f.center
}

// RadiusMeters returns the fence's radius in meters.
func (f Geofence) RadiusMeters() float64 {
	return f.radiusMeters
}

// Contains reports whether the point lies within the fence.
func (f Geofence) Contains(point GeoPoint) bool {
	return f.center.DistanceMeters(point) <= f.radiusMeters
}

// Distance returns how far the point lies from the fence's center in meters.
func (f Geofence) Distance(point GeoPoint) float64 {
	return f.center.DistanceMeters(point)
}

// Validate checks the Geofence was properly constructed.
func (f Geofence) Validate() error {
	return f.guard.Validate(ErrGeofenceIsNotConstructed)
}
