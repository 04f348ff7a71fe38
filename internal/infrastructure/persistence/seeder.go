package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/popstats/backend/internal/infrastructure/persistence/models"
)

type seedCity struct {
	name       string
	population *int64
}

type seedState struct {
	name   string
	cities []seedCity
}

type seedCountry struct {
	name   string
	states []seedState
}

func pop(n int64) *int64 { return &n }

// demoLocations uses alias country names on purpose so that standardization is visible.
var demoLocations = []seedCountry{
	{name: "U.S.A", states: []seedState{
		{name: "Texas", cities: []seedCity{{"Austin", pop(961855)}, {"Houston", pop(2304580)}}},
		{name: "California", cities: []seedCity{{"Los Angeles", pop(3898747)}, {"San Diego", pop(1386932)}}},
	}},
	{name: "United Kingdom", states: []seedState{
		{name: "Scotland", cities: []seedCity{{"Edinburgh", pop(506520)}, {"Glasgow", pop(635640)}}},
	}},
	{name: "UK", states: []seedState{
		{name: "Wales", cities: []seedCity{{"Cardiff", pop(362756)}}},
	}},
	{name: "Brazil", states: []seedState{
		{name: "Sao Paulo", cities: []seedCity{{"Sao Paulo", pop(12325232)}, {"Campinas", nil}}},
	}},
	{name: "Atlantis", states: []seedState{
		{name: "Lost Province", cities: []seedCity{{"Poseidonia", nil}}},
	}},
}

// Seeder loads the demo location hierarchy
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed inserts the demo hierarchy in one transaction. It returns false without
// writing when the country table already has rows.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Country{}).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to count countries: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range demoLocations {
			country := models.Country{CountryName: c.name}
			if err := tx.Create(&country).Error; err != nil {
				return fmt.Errorf("failed to insert country %s: %w", c.name, err)
			}
			for _, st := range c.states {
				state := models.State{StateName: st.name, CountryID: country.CountryID}
				if err := tx.Create(&state).Error; err != nil {
					return fmt.Errorf("failed to insert state %s: %w", st.name, err)
				}
				for _, ci := range st.cities {
					city := models.City{CityName: ci.name, StateID: state.StateID, Population: ci.population}
					if err := tx.Create(&city).Error; err != nil {
						return fmt.Errorf("failed to insert city %s: %w", ci.name, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
