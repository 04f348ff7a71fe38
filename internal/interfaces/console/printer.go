// Package console renders aggregation results as plain text.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/popstats/backend/internal/domain/population"
)

// Section titles
const (
	TitleTotals       = "Population counts per country"
	TitleTotalsCached = "Population counts per country [FROM CACHE]"
	TitleDetails      = "Population details by location"
)

// Printer writes the text views to out. Write errors are sticky: after the
// first failure nothing more is written and Err returns it.
type Printer struct {
	out io.Writer
	err error
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Header prints "--- {title} ---".
func (p *Printer) Header(title string) {
	p.printf("--- %s ---\n", title)
}

// CountryTotals prints one "{name}: {population}" line per country in insertion order.
// Unknown populations print as "no data".
func (p *Printer) CountryTotals(totals *population.CountryTotals) {
	for _, e := range totals.Entries() {
		p.printf("%s: %s\n", e.Country, e.Population)
	}
}

// Elapsed prints the timing line that closes a totals section.
func (p *Printer) Elapsed(d time.Duration) {
	p.printf("\nData aggregation completed in %d ms.\n\n", d.Milliseconds())
}

// LocationDetails prints the country, state and city hierarchy:
//
//	{country} ({total}):
//		{state} ({total}):
//			{city} ({population})
func (p *Printer) LocationDetails(details *population.LocationDetails) {
	for _, country := range details.Countries() {
		p.printf("%s (%s):\n", country.Name, country.Total())
		for _, state := range country.States() {
			p.printf("\t%s (%s):\n", state.Name, state.Total())
			for _, city := range state.Cities() {
				p.printf("\t\t%s (%s)\n", city.Name, city.Population)
			}
		}
	}
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.err = fmt.Errorf("write output: %w", err)
	}
}
