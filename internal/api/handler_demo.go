package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"botdemo/internal/catalog"
	"botdemo/internal/sequence"
)

type selectWalletRequest struct {
	Address string `json:"address" binding:"required"`
}

type selectPresetRequest struct {
	PresetID string `json:"preset_id" binding:"required"`
}

type sessionResponse struct {
	ID string `json:"id"`
	sequence.Snapshot
}

// ListDemoWallets handles GET /api/v1/demo/wallets
func (h *APIHandler) ListDemoWallets(c *gin.Context) {
	key := c.Query("sort")
	if key == "" {
		c.JSON(http.StatusOK, catalog.Wallets())
		return
	}
	wallets, err := catalog.SortedWallets(catalog.SortKey(key))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallets)
}

// ListDemoPresets handles GET /api/v1/demo/presets
func (h *APIHandler) ListDemoPresets(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Presets())
}

// CreateSession handles POST /api/v1/demo/sessions
func (h *APIHandler) CreateSession(c *gin.Context) {
	id, m, err := h.deps.Sessions.Create()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: id, Snapshot: m.Snapshot()})
}

// GetSession handles GET /api/v1/demo/sessions/:id
func (h *APIHandler) GetSession(c *gin.Context) {
	h.withSession(c, nil)
}

// DeleteSession handles DELETE /api/v1/demo/sessions/:id
func (h *APIHandler) DeleteSession(c *gin.Context) {
	if err := h.deps.Sessions.Delete(c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectWallet handles POST /api/v1/demo/sessions/:id/wallet
func (h *APIHandler) SelectWallet(c *gin.Context) {
	var req selectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	h.withSession(c, func(m *sequence.Machine) error { return m.SelectWallet(req.Address) })
}

// SelectPreset handles POST /api/v1/demo/sessions/:id/preset
func (h *APIHandler) SelectPreset(c *gin.Context) {
	var req selectPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	h.withSession(c, func(m *sequence.Machine) error { return m.SelectPreset(req.PresetID) })
}

// StartCopying handles POST /api/v1/demo/sessions/:id/start
func (h *APIHandler) StartCopying(c *gin.Context) {
	h.withSession(c, (*sequence.Machine).Start)
}

// ContinueCopying handles POST /api/v1/demo/sessions/:id/continue
func (h *APIHandler) ContinueCopying(c *gin.Context) {
	h.withSession(c, (*sequence.Machine).ContinueCopying)
}

// ResetSession handles POST /api/v1/demo/sessions/:id/reset
func (h *APIHandler) ResetSession(c *gin.Context) {
	h.withSession(c, func(m *sequence.Machine) error {
		m.Reset()
		return nil
	})
}

// withSession applies action to the session's machine, if any, and
// responds with the resulting snapshot.
func (h *APIHandler) withSession(c *gin.Context, action func(*sequence.Machine) error) {
	id := c.Param("id")
	m, err := h.deps.Sessions.Get(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if action != nil {
		if err := action(m); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: m.Snapshot()})
}
