package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceInfo is the static part of GET /system/info
type ServiceInfo struct {
	Name              string
	Version           string
	Sources           []string
	MergePolicy       string
	ConcurrentSources bool
}

// SystemHandler serves service metadata and a liveness ping
type SystemHandler struct {
	BaseHandler
	info    ServiceInfo
	started time.Time
	now     func() time.Time
}

// NewSystemHandler creates a SystemHandler. Uptime is measured from this call.
func NewSystemHandler(info ServiceInfo) *SystemHandler {
	h := &SystemHandler{info: info, now: time.Now}
	h.started = h.now()
	return h
}

// SystemInfoResponse is the body of GET /system/info
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name              string   `json:"name" example:"popstats"`
	Version           string   `json:"version" example:"1.0.0"`
	GoVersion         string   `json:"go_version" example:"go1.25.5"`
	Uptime            string   `json:"uptime" example:"1h30m45s"`
	Sources           []string `json:"sources" example:"static,restcountries"`
	MergePolicy       string   `json:"merge_policy" example:"db_wins"`
	ConcurrentSources bool     `json:"concurrent_sources" example:"false"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get service information
// @Description  Returns the version, uptime and aggregation setup (sources in merge order, merge policy)
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	sources := h.info.Sources
	if sources == nil {
		sources = []string{}
	}
	h.Success(c, SystemInfoResponse{
		Name:              h.info.Name,
		Version:           h.info.Version,
		GoVersion:         runtime.Version(),
		Uptime:            h.now().Sub(h.started).Round(time.Second).String(),
		Sources:           sources,
		MergePolicy:       h.info.MergePolicy,
		ConcurrentSources: h.info.ConcurrentSources,
	})
}

// PingResponse is the body of GET /system/ping
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Answers without touching the database or the population sources
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{Message: "pong", Timestamp: h.now().UTC().Format(time.RFC3339)})
}
