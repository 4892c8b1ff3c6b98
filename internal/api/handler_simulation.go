package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"botdemo/internal/catalog"
	"botdemo/internal/model"
	"botdemo/internal/simulation"
)

type simulationRequest struct {
	BotType string           `json:"bot_type" binding:"required"`
	Config  *model.BotConfig `json:"config"`
}

// ListBots handles GET /api/v1/bots
func (h *APIHandler) ListBots(c *gin.Context) {
	c.JSON(http.StatusOK, simulation.Profiles())
}

// GetBotConfig handles GET /api/v1/bots/:type/config
func (h *APIHandler) GetBotConfig(c *gin.Context) {
	cfg, err := simulation.DefaultConfig(simulation.BotType(c.Param("type")))
	if err != nil {
		if errors.Is(err, simulation.ErrUnknownBotType) {
			h.handleError(c, err, http.StatusNotFound, err.Error())
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// RunSimulation handles POST /api/v1/simulations
func (h *APIHandler) RunSimulation(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}

	results, err := h.deps.Simulator.Run(ctx, simulation.BotType(req.BotType), req.Config)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListGateways handles GET /api/v1/gateways
func (h *APIHandler) ListGateways(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Gateways())
}
