package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// StationHandler lists the network and lets admins maintain it.
type StationHandler struct {
	Stations repositories.StationRepository
}

// GET /api/stations
func (h StationHandler) List(c *gin.Context) {
	stations, err := h.Stations.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

type upsertStationRequest struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// PUT /api/admin/stations
func (h StationHandler) Upsert(c *gin.Context) {
	var req upsertStationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	name := utils.NormalizeStation(req.Name)
	if name == "" {
		RespondDomainError(c, domain.ValidationError{Field: "name", Msg: "station name is required"})
		return
	}

	if err := h.Stations.Upsert(name, req.X, req.Y); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "stations", "upsert", name)

	c.JSON(http.StatusOK, gin.H{"message": "station saved"})
}
