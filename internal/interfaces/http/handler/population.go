package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/interfaces/http/dto"
)

// PopulationService is the aggregation surface served over HTTP
type PopulationService interface {
	TotalByCountry(ctx context.Context) (*population.CountryTotals, error)
	DetailsByLocation(ctx context.Context) (*population.LocationDetails, error)
}

// PopulationHandler serves the population views
type PopulationHandler struct {
	BaseHandler
	service PopulationService
}

// NewPopulationHandler creates a new PopulationHandler
func NewPopulationHandler(service PopulationService) *PopulationHandler {
	return &PopulationHandler{service: service}
}

// GetCountryTotals godoc
// @ID           getPopulationCountryTotals
// @Summary      Population per country
// @Description  Sums city populations per standardized country name and merges in every
// @Description  configured population source. Countries without any known figure have
// @Description  a null population.
// @Tags         population
// @Produce      json
// @Success      200 {object} APIResponse[[]dto.CountryTotalResponse]
// @Failure      503 {object} ErrorResponse
// @Failure      504 {object} ErrorResponse
// @Router       /population/countries [get]
func (h *PopulationHandler) GetCountryTotals(c *gin.Context) {
	totals, err := h.service.TotalByCountry(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToCountryTotalsResponse(totals))
}

// GetLocationDetails godoc
// @ID           getPopulationLocationDetails
// @Summary      Population by location
// @Description  Country, state and city breakdown of the location store with per-level totals
// @Tags         population
// @Produce      json
// @Success      200 {object} APIResponse[[]dto.CountryDetailResponse]
// @Failure      503 {object} ErrorResponse
// @Failure      504 {object} ErrorResponse
// @Router       /population/details [get]
func (h *PopulationHandler) GetLocationDetails(c *gin.Context) {
	details, err := h.service.DetailsByLocation(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToLocationDetailsResponse(details))
}
