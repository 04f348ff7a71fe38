package console

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popstats/backend/internal/domain/population"
)

func TestPrinter_CountryTotals(t *testing.T) {
	totals := population.NewCountryTotals()
	totals.Add("U.S.A.", population.Known(1500))
	totals.Add("Mexico", population.Unknown())
	totals.Add("Canada", population.Known(38000000))

	var out strings.Builder
	p := NewPrinter(&out)
	p.Header(TitleTotals)
	p.CountryTotals(totals)
	p.Elapsed(42 * time.Millisecond)

	require.NoError(t, p.Err())
	assert.Equal(t,
		"--- Population counts per country ---\n"+
			"U.S.A.: 1500\n"+
			"Mexico: no data\n"+
			"Canada: 38000000\n"+
			"\nData aggregation completed in 42 ms.\n\n",
		out.String())
}

func TestPrinter_LocationDetails(t *testing.T) {
	details := population.NewLocationDetails()
	details.Put("U.S.A.", "Texas", "Austin", population.Known(1000))
	details.Put("U.S.A.", "Texas", "Dallas", population.Known(500))
	details.Put("U.S.A.", "Ohio", "Dayton", population.Unknown())
	details.Put("Canada", "Ontario", "Toronto", population.Known(2700))

	var out strings.Builder
	p := NewPrinter(&out)
	p.LocationDetails(details)

	require.NoError(t, p.Err())
	assert.Equal(t,
		"U.S.A. (1500):\n"+
			"\tTexas (1500):\n"+
			"\t\tAustin (1000)\n"+
			"\t\tDallas (500)\n"+
			"\tOhio (no data):\n"+
			"\t\tDayton (no data)\n"+
			"Canada (2700):\n"+
			"\tOntario (2700):\n"+
			"\t\tToronto (2700)\n",
		out.String())
}

func TestPrinter_EmptyViews(t *testing.T) {
	var out strings.Builder
	p := NewPrinter(&out)
	p.CountryTotals(population.NewCountryTotals())
	p.LocationDetails(population.NewLocationDetails())

	require.NoError(t, p.Err())
	assert.Empty(t, out.String())
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(b []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestPrinter_StickyWriteError(t *testing.T) {
	w := &failingWriter{}
	p := NewPrinter(w)
	p.Header(TitleTotals)
	p.Header(TitleDetails)
	p.Elapsed(time.Second)

	require.Error(t, p.Err())
	assert.Contains(t, p.Err().Error(), "write output")
	assert.Equal(t, 1, w.writes)
}
