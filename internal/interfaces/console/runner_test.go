package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/popstats/backend/internal/domain/population"
)

type MockPopulationService struct {
	mock.Mock
}

func (m *MockPopulationService) TotalByCountry(ctx context.Context) (*population.CountryTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*population.CountryTotals), args.Error(1)
}

func (m *MockPopulationService) DetailsByLocation(ctx context.Context) (*population.LocationDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*population.LocationDetails), args.Error(1)
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestRunner_Run(t *testing.T) {
	totals := population.NewCountryTotals()
	totals.Add("U.S.A.", population.Known(1500))
	details := population.NewLocationDetails()
	details.Put("U.S.A.", "Texas", "Austin", population.Known(1500))

	svc := new(MockPopulationService)
	svc.On("TotalByCountry", mock.Anything).Return(totals, nil).Twice()
	svc.On("DetailsByLocation", mock.Anything).Return(details, nil).Once()

	core, logs := observer.New(zapcore.DebugLevel)
	var out strings.Builder
	r := NewRunner(svc, &out, WithClock(steppingClock(7*time.Millisecond)), WithLogger(zap.New(core)))

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t,
		"--- Population counts per country ---\n"+
			"U.S.A.: 1500\n"+
			"\nData aggregation completed in 7 ms.\n\n"+
			"--- Population counts per country [FROM CACHE] ---\n"+
			"U.S.A.: 1500\n"+
			"\nData aggregation completed in 7 ms.\n\n"+
			"--- Population details by location ---\n"+
			"U.S.A. (1500):\n"+
			"\tTexas (1500):\n"+
			"\t\tAustin (1500)\n",
		out.String())
	svc.AssertExpectations(t)
	assert.Equal(t, 2, logs.FilterMessage("Country totals printed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Location details printed").Len())
}

func TestRunner_Run_TotalsFailure(t *testing.T) {
	svc := new(MockPopulationService)
	svc.On("TotalByCountry", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	var out strings.Builder
	err := NewRunner(svc, &out).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "total by country")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "--- Population counts per country ---\n", out.String())
	svc.AssertNotCalled(t, "DetailsByLocation", mock.Anything)
}

func TestRunner_Run_DetailsFailure(t *testing.T) {
	svc := new(MockPopulationService)
	svc.On("TotalByCountry", mock.Anything).Return(population.NewCountryTotals(), nil).Twice()
	svc.On("DetailsByLocation", mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	var out strings.Builder
	err := NewRunner(svc, &out, WithClock(steppingClock(time.Millisecond))).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, strings.HasSuffix(out.String(), "--- Population details by location ---\n"))
}
