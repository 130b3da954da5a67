package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA represents the instruction-set level the word kernels can rely on.
type ISA uint8

const (
	// Generic represents pure Go code with no feature assumptions.
	Generic ISA = iota
	// POPCNT represents x86-64 with the POPCNT instruction.
	POPCNT
	// BMI represents x86-64 with POPCNT, BMI1 (TZCNT) and BMI2.
	BMI
	// NEON represents ARM64 ASIMD (CNT + RBIT/CLZ for trailing zeros).
	NEON
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case POPCNT:
		return "popcnt"
	case BMI:
		return "bmi"
	case NEON:
		return "neon"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "popcnt":
		return POPCNT, true
	case "bmi":
		return BMI, true
	case "neon":
		return NEON, true
	default:
		return Generic, false
	}
}

// OverrideEnv names the environment variable that pins the reported ISA.
const OverrideEnv = "PACKEDSET_ISA"

// Package-level state, set once by the platform-specific init.
var (
	activeISA   ISA
	hasOverride bool

	hasPOPCNT bool // x86-64 POPCNT
	hasBMI1   bool // x86-64 BMI1 (TZCNT)
	hasBMI2   bool // x86-64 BMI2
	hasASIMD  bool // ARM64 NEON
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	if override := os.Getenv(OverrideEnv); override != "" {
		if isa, ok := ParseISA(override); ok {
			hasOverride = true
			if isISAAvailable(isa) {
				activeISA = isa
				return
			}
		}
	}

	activeISA = selectBestISA()
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case POPCNT:
		return hasPOPCNT
	case BMI:
		return hasPOPCNT && hasBMI1 && hasBMI2
	case NEON:
		return hasASIMD
	default:
		return false
	}
}

func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "amd64":
		if hasPOPCNT && hasBMI1 && hasBMI2 {
			return BMI
		}
		if hasPOPCNT {
			return POPCNT
		}
		return Generic
	case "arm64":
		if hasASIMD {
			return NEON
		}
		return Generic
	default:
		return Generic
	}
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden returns true if PACKEDSET_ISA was set.
func IsOverridden() bool {
	return hasOverride
}

// Features lists the detected CPU features relevant to the word kernels.
func Features() []string {
	var out []string
	if hasPOPCNT {
		out = append(out, "popcnt")
	}
	if hasBMI1 {
		out = append(out, "bmi1")
	}
	if hasBMI2 {
		out = append(out, "bmi2")
	}
	if hasASIMD {
		out = append(out, "asimd")
	}
	return out
}
