package dto

import "github.com/popstats/backend/internal/domain/population"

// CountryTotalResponse is one country of the totals view
type CountryTotalResponse struct {
	Country    string `json:"country" example:"United States of America"`
	Population *int64 `json:"population" example:"309349689"`
	Known      bool   `json:"known" example:"true"`
}

// CityResponse is one city of the details view
type CityResponse struct {
	Name       string `json:"name" example:"Austin"`
	Population *int64 `json:"population" example:"978908"`
	Known      bool   `json:"known" example:"true"`
}

// StateResponse groups cities of one state
type StateResponse struct {
	Name   string         `json:"name" example:"Texas"`
	Total  *int64         `json:"total" example:"978908"`
	Known  bool           `json:"known" example:"true"`
	Cities []CityResponse `json:"cities"`
}

// CountryDetailResponse groups states of one country
type CountryDetailResponse struct {
	Name   string          `json:"name" example:"United States of America"`
	Total  *int64          `json:"total" example:"978908"`
	Known  bool            `json:"known" example:"true"`
	States []StateResponse `json:"states"`
}

// ToCountryTotalsResponse converts the totals map, keeping its order
func ToCountryTotalsResponse(totals *population.CountryTotals) []CountryTotalResponse {
	entries := totals.Entries()
	out := make([]CountryTotalResponse, 0, len(entries))
	for _, e := range entries {
		value, known := countPointer(e.Population)
		out = append(out, CountryTotalResponse{
			Country:    e.Country,
			Population: value,
			Known:      known,
		})
	}
	return out
}

// ToLocationDetailsResponse converts the three-level breakdown, keeping its order
func ToLocationDetailsResponse(details *population.LocationDetails) []CountryDetailResponse {
	countries := details.Countries()
	out := make([]CountryDetailResponse, 0, len(countries))
	for _, country := range countries {
		total, known := countPointer(country.Total())
		cd := CountryDetailResponse{
			Name:   country.Name,
			Total:  total,
			Known:  known,
			States: []StateResponse{},
		}
		for _, state := range country.States() {
			stateTotal, stateKnown := countPointer(state.Total())
			sd := StateResponse{
				Name:   state.Name,
				Total:  stateTotal,
				Known:  stateKnown,
				Cities: []CityResponse{},
			}
			for _, city := range state.Cities() {
				pop, cityKnown := countPointer(city.Population)
				sd.Cities = append(sd.Cities, CityResponse{
					Name:       city.Name,
					Population: pop,
					Known:      cityKnown,
				})
			}
			cd.States = append(cd.States, sd)
		}
		out = append(out, cd)
	}
	return out
}

func countPointer(c population.Count) (*int64, bool) {
	v, ok := c.Value()
	if !ok {
		return nil, false
	}
	return &v, true
}
