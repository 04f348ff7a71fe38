package population

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/popstats/backend/internal/domain/shared"
)

// DefaultAliases returns the built-in alias -> canonical country names.
func DefaultAliases() map[string]string {
	return map[string]string{
		"U.S.A":         "United States of America",
		"United States": "United States of America",
		"UK":            "United Kingdom",
		"England":       "United Kingdom",
	}
}

// NameStandardizer maps alias country names to canonical ones.
// It is immutable once built and safe for concurrent use.
type NameStandardizer struct {
	canonical map[string]string // folded alias -> canonical
	aliases   map[string]string
}

// NewNameStandardizer builds a standardizer from an alias table.
// Aliases are matched case-insensitively; duplicate aliases that differ only in case are rejected.
func NewNameStandardizer(aliases map[string]string) (*NameStandardizer, error) {
	s := &NameStandardizer{
		canonical: make(map[string]string, len(aliases)),
		aliases:   make(map[string]string, len(aliases)),
	}
	for alias, canonical := range aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(canonical) == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "country alias and canonical name must be non-empty")
		}
		key := foldName(alias)
		if prev, ok := s.canonical[key]; ok && prev != canonical {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("conflicting mappings for alias %q", alias))
		}
		s.canonical[key] = canonical
		s.aliases[alias] = canonical
	}
	return s, nil
}

// NewDefaultNameStandardizer builds a standardizer from DefaultAliases merged with extra.
// Entries in extra win over the defaults.
func NewDefaultNameStandardizer(extra map[string]string) (*NameStandardizer, error) {
	merged := DefaultAliases()
	for alias, canonical := range extra {
		for existing := range merged {
			if foldName(existing) == foldName(alias) {
				delete(merged, existing)
			}
		}
		merged[alias] = canonical
	}
	return NewNameStandardizer(merged)
}

// Standardize returns the canonical name for name, or name unchanged when it is not an alias.
func (s *NameStandardizer) Standardize(name string) string {
	if canonical, ok := s.canonical[foldName(name)]; ok {
		return canonical
	}
	return name
}

// Aliases returns a copy of the alias table.
func (s *NameStandardizer) Aliases() map[string]string {
	out := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}
	return out
}

// foldName returns the case-insensitive key for a name. A Caser is stateful,
// so a fresh one is used per call.
func foldName(name string) string {
	return cases.Fold().String(name)
}
