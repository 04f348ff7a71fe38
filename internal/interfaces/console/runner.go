package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	populationapp "github.com/popstats/backend/internal/application/population"
	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

// PopulationService is the aggregation surface the console program prints
type PopulationService interface {
	TotalByCountry(ctx context.Context) (*population.CountryTotals, error)
	DetailsByLocation(ctx context.Context) (*population.LocationDetails, error)
}

// Runner drives one console run: the totals view twice (the second pass is
// served from the live source's cache) and then the location breakdown.
type Runner struct {
	service PopulationService
	printer *Printer
	logger  *zap.Logger
	now     func() time.Time
}

// RunnerOption is a functional option for Runner
type RunnerOption func(*Runner)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock replaces time.Now for the timing lines
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner printing to out
func NewRunner(service PopulationService, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		service: service,
		printer: NewPrinter(out),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prints every view. The first aggregation error stops the run; output
// already written stays, but no partial listing is printed for the failed view.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.totals(ctx, TitleTotals); err != nil {
		return err
	}
	if err := r.totals(ctx, TitleTotalsCached); err != nil {
		return err
	}
	if err := r.details(ctx); err != nil {
		return err
	}
	return r.printer.Err()
}

func (r *Runner) totals(ctx context.Context, title string) error {
	r.printer.Header(title)

	start := r.now()
	var (
		totals *population.CountryTotals
		err    error
	)
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: populationapp.OperationTotalByCountry,
	}, func(ctx context.Context) {
		totals, err = r.service.TotalByCountry(ctx)
	})
	elapsed := r.now().Sub(start)
	if err != nil {
		return fmt.Errorf("total by country: %w", err)
	}

	r.printer.CountryTotals(totals)
	r.printer.Elapsed(elapsed)
	r.logger.Debug("Country totals printed",
		zap.String("section", title),
		zap.Int("countries", totals.Len()),
		zap.Duration("elapsed", elapsed))
	return r.printer.Err()
}

func (r *Runner) details(ctx context.Context) error {
	r.printer.Header(TitleDetails)

	var (
		details *population.LocationDetails
		err     error
	)
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: populationapp.OperationDetailsByLocation,
	}, func(ctx context.Context) {
		details, err = r.service.DetailsByLocation(ctx)
	})
	if err != nil {
		return fmt.Errorf("details by location: %w", err)
	}

	r.printer.LocationDetails(details)
	r.logger.Debug("Location details printed", zap.Int("countries", details.Len()))
	return r.printer.Err()
}
