package population

import (
	"fmt"
	"strings"

	"github.com/popstats/backend/internal/domain/shared"
)

// CountryPopulation is a country-level figure supplied by a Source.
type CountryPopulation struct {
	countryName string
	population  int64
}

// NewCountryPopulation validates and creates a CountryPopulation.
func NewCountryPopulation(countryName string, population int64) (CountryPopulation, error) {
	if strings.TrimSpace(countryName) == "" {
		return CountryPopulation{}, shared.NewDomainError("INVALID_INPUT", "country name cannot be empty")
	}
	if population < 0 {
		return CountryPopulation{}, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("population for %q cannot be negative", countryName))
	}
	return CountryPopulation{countryName: countryName, population: population}, nil
}

// CountryName returns the name as reported by the source, before standardization.
func (c CountryPopulation) CountryName() string {
	return c.countryName
}

// Population returns the reported population.
func (c CountryPopulation) Population() int64 {
	return c.population
}

// LocationRow is one city of the country -> state -> city hierarchy.
type LocationRow struct {
	CountryName string
	StateName   string
	CityName    string
	Population  Count
}
