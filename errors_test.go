package packedset

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		msg      string
	}{
		{
			name:     "Config",
			err:      &ConfigError{Capacity: 3, Bits: 0, Reason: "bit width must be positive"},
			sentinel: ErrConfig,
			msg:      "invalid configuration (capacity=3, bits=0): bit width must be positive",
		},
		{
			name:     "Domain",
			err:      &DomainError{Value: 15, Max: 14},
			sentinel: ErrDomain,
			msg:      "value 15 outside domain [0, 14]",
		},
		{
			name:     "Capacity",
			err:      &CapacityError{Capacity: 5},
			sentinel: ErrCapacity,
			msg:      "packed set is full (capacity 5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.msg)
			assert.ErrorIs(t, tt.err, tt.sentinel)

			wrapped := fmt.Errorf("op failed: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)

			for _, other := range []error{ErrConfig, ErrDomain, ErrCapacity} {
				if other != tt.sentinel {
					assert.False(t, errors.Is(tt.err, other))
				}
			}
		})
	}
}
