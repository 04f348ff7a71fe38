package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/interfaces/http/handler"
)

type mockPopulationService struct {
	mock.Mock
}

func (m *mockPopulationService) TotalByCountry(ctx context.Context) (*population.CountryTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*population.CountryTotals), args.Error(1)
}

func (m *mockPopulationService) DetailsByLocation(ctx context.Context) (*population.LocationDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*population.LocationDetails), args.Error(1)
}

func newTestEngine(t *testing.T, svc handler.PopulationService, log *zap.Logger) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	engine := NewEngine(EngineConfig{
		Logger:         log,
		ServiceName:    "popstats-test",
		RequestTimeout: time.Second,
		Swagger: func(c *gin.Context) {
			c.String(http.StatusOK, "swagger")
		},
	}, Handlers{
		Population: handler.NewPopulationHandler(svc),
		Health:     handler.NewHealthHandler(db),
		System:     handler.NewSystemHandler(handler.ServiceInfo{Name: "popstats", Version: "1.0.0"}),
	})
	return engine, dbMock
}

func TestNewEngine_Routes(t *testing.T) {
	totals := population.NewCountryTotals()
	totals.Add("India", population.Known(1182105000))

	svc := new(mockPopulationService)
	svc.On("TotalByCountry", mock.Anything).Return(totals, nil)
	svc.On("DetailsByLocation", mock.Anything).Return(population.NewLocationDetails(), nil)

	engine, dbMock := newTestEngine(t, svc, zap.NewNop())
	dbMock.ExpectPing()

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/population/countries", http.StatusOK},
		{"/api/v1/population/details", http.StatusOK},
		{"/api/v1/system/info", http.StatusOK},
		{"/api/v1/system/ping", http.StatusOK},
		{"/health", http.StatusOK},
		{"/swagger/index.html", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
	svc.AssertExpectations(t)
}

func TestNewEngine_CountriesBody(t *testing.T) {
	totals := population.NewCountryTotals()
	totals.Add("India", population.Known(1182105000))

	svc := new(mockPopulationService)
	svc.On("TotalByCountry", mock.Anything).Return(totals, nil)

	engine, _ := newTestEngine(t, svc, zap.NewNop())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/population/countries", nil))

	assert.JSONEq(t, `{"success":true,"data":[{"country":"India","population":1182105000,"known":true}]}`, w.Body.String())
}

func TestNewEngine_ServiceFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	svc := new(mockPopulationService)
	svc.On("DetailsByLocation", mock.Anything).Return(nil, errors.New("read locations: connection refused"))

	engine, _ := newTestEngine(t, svc, zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/population/details", nil)
	req.Header.Set("X-Request-ID", "req-fail")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-fail"`)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "req-fail", entries[0].ContextMap()["request_id"])
	assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
}

func TestNewEngine_RecoversPanics(t *testing.T) {
	svc := new(mockPopulationService)
	svc.On("TotalByCountry", mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	})

	engine, _ := newTestEngine(t, svc, zap.NewNop())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/population/countries", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
}
