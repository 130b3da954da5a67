package packedset

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a (capacity, bit width) pair cannot be laid out.
	ErrConfig = errors.New("invalid packed set configuration")

	// ErrDomain is returned when a value is outside [0, MaxValue].
	// The empty sentinel is never a legal element.
	ErrDomain = errors.New("value outside packed set domain")

	// ErrCapacity is returned by Insert when every lane is occupied.
	ErrCapacity = errors.New("packed set is full")
)

// ConfigError describes a rejected layout.
//
// It matches ErrConfig via errors.Is.
type ConfigError struct {
	Capacity int
	Bits     int
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration (capacity=%d, bits=%d): %s", e.Capacity, e.Bits, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// DomainError describes a value that cannot be stored in a lane.
//
// It matches ErrDomain via errors.Is.
type DomainError struct {
	Value uint64
	Max   uint64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("value %d outside domain [0, %d]", e.Value, e.Max)
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// CapacityError is returned when an insert finds no empty lane.
//
// It matches ErrCapacity via errors.Is.
type CapacityError struct {
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("packed set is full (capacity %d)", e.Capacity)
}

// Is reports whether target is ErrCapacity.
func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

func configError(capacity, bits int, reason string) error {
	return &ConfigError{Capacity: capacity, Bits: bits, Reason: reason}
}
