package models

// Country maps the country table
type Country struct {
	CountryID   int64  `gorm:"column:countryid;primaryKey;autoIncrement"`
	CountryName string `gorm:"column:countryname;not null"`
}

// TableName returns the table name for GORM
func (Country) TableName() string {
	return "country"
}

// State maps the state table
type State struct {
	StateID   int64  `gorm:"column:stateid;primaryKey;autoIncrement"`
	StateName string `gorm:"column:statename;not null"`
	CountryID int64  `gorm:"column:countryid;not null;index"`
}

// TableName returns the table name for GORM
func (State) TableName() string {
	return "state"
}

// City maps the city table. Population is NULL when unknown.
type City struct {
	CityID     int64  `gorm:"column:cityid;primaryKey;autoIncrement"`
	CityName   string `gorm:"column:cityname;not null"`
	StateID    int64  `gorm:"column:stateid;not null;index"`
	Population *int64 `gorm:"column:population"`
}

// TableName returns the table name for GORM
func (City) TableName() string {
	return "city"
}

// LocationRecord is one row of the country/state/city join
type LocationRecord struct {
	CountryName string
	StateName   string
	CityName    string
	Population  *int64
}
