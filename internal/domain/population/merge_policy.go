package population

import (
	"fmt"
	"strings"

	"github.com/popstats/backend/internal/domain/shared"
)

// MergePolicy decides what happens when a source reports a country that is already present.
type MergePolicy string

const (
	// MergeDBWins keeps the existing value and drops the source value.
	MergeDBWins MergePolicy = "db_wins"
	// MergeSum adds the source value to the existing value.
	MergeSum MergePolicy = "sum"
	// MergeOverride replaces the existing value with the source value.
	MergeOverride MergePolicy = "override"
)

// ParseMergePolicy parses a configured policy name. Empty means MergeDBWins.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MergeDBWins, nil
	case MergeDBWins, MergeSum, MergeOverride:
		return p, nil
	default:
		return "", shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown merge policy %q", s))
	}
}

// Resolve returns the value to store for an existing count and an incoming source count.
func (p MergePolicy) Resolve(existing Count, incoming int64) Count {
	switch p {
	case MergeSum:
		return existing.Add(Known(incoming))
	case MergeOverride:
		return Known(incoming)
	default:
		return existing
	}
}
