package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/infrastructure/persistence/models"
)

// GormLocationRepository reads the country -> state -> city hierarchy with GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// LocationRows returns every city joined to its state and country, ordered by ids.
// Cities without a state or country are not returned.
func (r *GormLocationRepository) LocationRows(ctx context.Context) ([]population.LocationRow, error) {
	var records []models.LocationRecord
	err := r.db.WithContext(ctx).
		Table("country").
		Select("country.countryname AS country_name, state.statename AS state_name, " +
			"city.cityname AS city_name, city.population AS population").
		Joins("JOIN state ON state.countryid = country.countryid").
		Joins("JOIN city ON city.stateid = state.stateid").
		Order("country.countryid, state.stateid, city.cityid").
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}

	rows := make([]population.LocationRow, len(records))
	for i, rec := range records {
		rows[i] = population.LocationRow{
			CountryName: rec.CountryName,
			StateName:   rec.StateName,
			CityName:    rec.CityName,
			Population:  population.CountFromPointer(rec.Population),
		}
	}
	return rows, nil
}

// Ensure GormLocationRepository implements LocationReader
var _ population.LocationReader = (*GormLocationRepository)(nil)
