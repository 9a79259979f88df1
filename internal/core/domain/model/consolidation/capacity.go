package consolidation

import (
	"errors"
	"fmt"

	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

// ErrCapacityIsNotConstructed is returned when attempting to use an improperly
// initialized Capacity envelope.
var ErrCapacityIsNotConstructed = errors.New("Capacity must be created via NewCapacity constructor")

// Capacity is the immutable envelope a consolidation must stay within:
// maximum piece count, weight and volume. All three bounds are required.
type Capacity struct { //nolint:recvcheck //using for validation
	maxPieces   int
	maxWeightKg float64
	maxVolumeM3 float64
	guard       guard.ConstructorGuard
}

// NewCapacity creates a capacity envelope. Every bound must be positive.
func NewCapacity(maxPieces int, maxWeightKg, maxVolumeM3 float64) (Capacity, error) {
	if maxPieces <= 0 {
		return Capacity{}, errs.NewValueIsInvalidErrorWithCause(
			"maxPieces is invalid", fmt.Errorf("%d is not greater than 0", maxPieces))
	}
	if maxWeightKg <= 0 {
		return Capacity{}, errs.NewValueIsInvalidErrorWithCause(
			"maxWeightKg is invalid", fmt.Errorf("%f is not greater than 0", maxWeightKg))
	}
	if maxVolumeM3 <= 0 {
		return Capacity{}, errs.NewValueIsInvalidErrorWithCause(
			"maxVolumeM3 is invalid", fmt.Errorf("%f is not greater than 0", maxVolumeM3))
	}

	return Capacity{
		maxPieces:   maxPieces,
		maxWeightKg: maxWeightKg,
		maxVolumeM3: maxVolumeM3,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// MaxPieces returns the maximum member count.
func (c Capacity) MaxPieces() int { return c.maxPieces }

// MaxWeightKg returns the maximum total weight.
func (c Capacity) MaxWeightKg() float64 { return c.maxWeightKg }

// MaxVolumeM3 returns the maximum total volume.
func (c Capacity) MaxVolumeM3() float64 { return c.maxVolumeM3 }

// Validate checks the Capacity was properly constructed.
func (c Capacity) Validate() error {
	return c.guard.Validate(ErrCapacityIsNotConstructed)
}
