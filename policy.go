package cbmark

import (
	"fmt"
	"strings"
)

// Policy selects how repeated empty trials are folded into a resolution
// estimate.
type Policy int

const (
	// MaxOrderOfMagnitude keeps the largest value seen per channel and rounds
	// it up to the next power of ten. This is the default.
	MaxOrderOfMagnitude Policy = iota

	// AverageCeiling keeps a running mean per channel and takes its ceiling.
	AverageCeiling
)

// String returns the canonical name of the policy.
func (p Policy) String() string {
	switch p {
	case MaxOrderOfMagnitude:
		return "max-order-of-magnitude"
	case AverageCeiling:
		return "average-ceiling"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name, or one of its short forms, to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "max-order-of-magnitude":
		return MaxOrderOfMagnitude, nil
	case "avg", "average", "average-ceiling":
		return AverageCeiling, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidArgument, s)
	}
}
