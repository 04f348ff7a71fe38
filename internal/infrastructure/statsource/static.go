package statsource

import (
	"context"

	"github.com/popstats/backend/internal/domain/population"
)

// StaticSourceName identifies the built-in dataset in logs and metrics
const StaticSourceName = "static"

type staticEntry struct {
	country    string
	population int64
}

var staticDataset = []staticEntry{
	{"India", 1182105000},
	{"United Kingdom", 62026962},
	{"Chile", 17094270},
	{"Mali", 15370000},
	{"Greece", 11305118},
	{"Armenia", 3249482},
	{"Slovenia", 2046976},
	{"Saint Vincent and the Grenadines", 109284},
	{"Bhutan", 695822},
	{"Aruba (Netherlands)", 101484},
	{"Maldives", 319738},
	{"Mayotte (France)", 202000},
	{"Vietnam", 86932500},
	{"Germany", 81802257},
	{"Botswana", 2029307},
	{"Togo", 6191155},
	{"Luxembourg", 502066},
	{"U.S. Virgin Islands (US)", 106267},
	{"Belarus", 9480178},
	{"Myanmar", 59780000},
	{"Mauritania", 3217383},
	{"Malaysia", 28334135},
	{"Dominican Republic", 9884371},
	{"New Caledonia (France)", 248000},
	{"Slovakia", 5424925},
	{"Kyrgyzstan", 5418300},
	{"Lithuania", 3329039},
	{"United States of America", 309349689},
}

// StaticSource serves a fixed, hardcoded set of country populations
type StaticSource struct {
	data []population.CountryPopulation
}

// NewStaticSource builds the static source from the built-in dataset
func NewStaticSource() *StaticSource {
	data := make([]population.CountryPopulation, 0, len(staticDataset))
	for _, e := range staticDataset {
		cp, err := population.NewCountryPopulation(e.country, e.population)
		if err != nil {
			// the dataset is a compile-time constant
			panic(err)
		}
		data = append(data, cp)
	}
	return &StaticSource{data: data}
}

// Name implements population.Source
func (s *StaticSource) Name() string {
	return StaticSourceName
}

// CountryPopulations returns a fresh copy of the dataset
func (s *StaticSource) CountryPopulations(ctx context.Context) ([]population.CountryPopulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]population.CountryPopulation, len(s.data))
	copy(out, s.data)
	return out, nil
}

var _ population.Source = (*StaticSource)(nil)
