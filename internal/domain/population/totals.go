package population

// CountryTotal is one entry of CountryTotals.
type CountryTotal struct {
	Country    string `json:"country"`
	Population Count  `json:"population"`
}

// CountryTotals maps standardized country names to totals. Keys are compared
// case-insensitively and iteration follows insertion order.
type CountryTotals struct {
	entries []CountryTotal
	index   map[string]int
}

// NewCountryTotals returns an empty map.
func NewCountryTotals() *CountryTotals {
	return &CountryTotals{index: make(map[string]int)}
}

// Get looks up a country case-insensitively.
func (t *CountryTotals) Get(country string) (Count, bool) {
	i, ok := t.index[foldName(country)]
	if !ok {
		return Count{}, false
	}
	return t.entries[i].Population, true
}

// Contains reports whether the country is present.
func (t *CountryTotals) Contains(country string) bool {
	_, ok := t.index[foldName(country)]
	return ok
}

// Add sums c into the country's total, inserting the country if absent.
func (t *CountryTotals) Add(country string, c Count) {
	if i, ok := t.index[foldName(country)]; ok {
		t.entries[i].Population = t.entries[i].Population.Add(c)
		return
	}
	t.insert(country, c)
}

// Set stores c for the country, keeping the original key and position when present.
func (t *CountryTotals) Set(country string, c Count) {
	if i, ok := t.index[foldName(country)]; ok {
		t.entries[i].Population = c
		return
	}
	t.insert(country, c)
}

// Merge applies a source value under policy. It returns true when the stored value changed
// or the country was inserted.
func (t *CountryTotals) Merge(country string, population int64, policy MergePolicy) bool {
	i, ok := t.index[foldName(country)]
	if !ok {
		t.insert(country, Known(population))
		return true
	}
	before := t.entries[i].Population
	after := policy.Resolve(before, population)
	t.entries[i].Population = after
	return before != after
}

// Len returns the number of countries.
func (t *CountryTotals) Len() int {
	return len(t.entries)
}

// Entries returns the entries in insertion order.
func (t *CountryTotals) Entries() []CountryTotal {
	out := make([]CountryTotal, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *CountryTotals) insert(country string, c Count) {
	t.index[foldName(country)] = len(t.entries)
	t.entries = append(t.entries, CountryTotal{Country: country, Population: c})
}
