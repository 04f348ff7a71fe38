package population

// CityDetail is a leaf of LocationDetails.
type CityDetail struct {
	Name       string
	Population Count
}

// StateDetail groups the cities of one state in insertion order.
type StateDetail struct {
	Name   string
	cities []CityDetail
	index  map[string]int
}

// Cities returns the cities in insertion order.
func (s *StateDetail) Cities() []CityDetail {
	out := make([]CityDetail, len(s.cities))
	copy(out, s.cities)
	return out
}

// City looks up a city by exact name.
func (s *StateDetail) City(name string) (Count, bool) {
	i, ok := s.index[name]
	if !ok {
		return Count{}, false
	}
	return s.cities[i].Population, true
}

// Total sums the state's cities.
func (s *StateDetail) Total() Count {
	var total Count
	for _, c := range s.cities {
		total = total.Add(c.Population)
	}
	return total
}

// CountryDetail groups the states of one country in insertion order.
type CountryDetail struct {
	Name   string
	states []*StateDetail
	index  map[string]int
}

// States returns the states in insertion order.
func (c *CountryDetail) States() []*StateDetail {
	out := make([]*StateDetail, len(c.states))
	copy(out, c.states)
	return out
}

// State looks up a state by exact name.
func (c *CountryDetail) State(name string) (*StateDetail, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.states[i], true
}

// Total sums every city of the country.
func (c *CountryDetail) Total() Count {
	var total Count
	for _, s := range c.states {
		total = total.Add(s.Total())
	}
	return total
}

// LocationDetails is the country -> state -> city breakdown. Country names are
// matched case-insensitively, state and city names exactly.
type LocationDetails struct {
	countries []*CountryDetail
	index     map[string]int
}

// NewLocationDetails returns an empty breakdown.
func NewLocationDetails() *LocationDetails {
	return &LocationDetails{index: make(map[string]int)}
}

// Put records a city population, creating the country and state on first sight.
// A city already present under the same state is overwritten in place.
func (d *LocationDetails) Put(country, state, city string, population Count) {
	cd := d.country(country)
	sd := cd.state(state)
	if i, ok := sd.index[city]; ok {
		sd.cities[i].Population = population
		return
	}
	sd.index[city] = len(sd.cities)
	sd.cities = append(sd.cities, CityDetail{Name: city, Population: population})
}

// Country looks up a country case-insensitively.
func (d *LocationDetails) Country(name string) (*CountryDetail, bool) {
	i, ok := d.index[foldName(name)]
	if !ok {
		return nil, false
	}
	return d.countries[i], true
}

// Countries returns the countries in insertion order.
func (d *LocationDetails) Countries() []*CountryDetail {
	out := make([]*CountryDetail, len(d.countries))
	copy(out, d.countries)
	return out
}

// Len returns the number of countries.
func (d *LocationDetails) Len() int {
	return len(d.countries)
}

func (d *LocationDetails) country(name string) *CountryDetail {
	key := foldName(name)
	if i, ok := d.index[key]; ok {
		return d.countries[i]
	}
	cd := &CountryDetail{Name: name, index: make(map[string]int)}
	d.index[key] = len(d.countries)
	d.countries = append(d.countries, cd)
	return cd
}

func (c *CountryDetail) state(name string) *StateDetail {
	if i, ok := c.index[name]; ok {
		return c.states[i]
	}
	sd := &StateDetail{Name: name, index: make(map[string]int)}
	c.index[name] = len(c.states)
	c.states = append(c.states, sd)
	return sd
}
