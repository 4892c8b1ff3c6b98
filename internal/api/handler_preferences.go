package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"botdemo/internal/model"
)

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

type consentRequest struct {
	Functional      bool `json:"functional"`
	Analytics       bool `json:"analytics"`
	Marketing       bool `json:"marketing"`
	Personalization bool `json:"personalization"`
}

// GetLanguage handles GET /api/v1/preferences/language
func (h *APIHandler) GetLanguage(c *gin.Context) {
	lang, err := h.deps.Preferences.Language(c.Request.Context(), c.GetHeader(VisitorIDHeaderKey))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": lang})
}

// SetLanguage handles PUT /api/v1/preferences/language
func (h *APIHandler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	if err := h.deps.Preferences.SetLanguage(c.Request.Context(), c.GetHeader(VisitorIDHeaderKey), req.Language); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": req.Language})
}

// GetConsent handles GET /api/v1/preferences/consent
func (h *APIHandler) GetConsent(c *gin.Context) {
	consent, recorded, err := h.deps.Preferences.Consent(c.Request.Context(), c.GetHeader(VisitorIDHeaderKey))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consent": consent, "recorded": recorded})
}

// SetConsent handles PUT /api/v1/preferences/consent
func (h *APIHandler) SetConsent(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	consent, err := h.deps.Preferences.SetConsent(c.Request.Context(), c.GetHeader(VisitorIDHeaderKey), model.Consent{
		Functional:      req.Functional,
		Analytics:       req.Analytics,
		Marketing:       req.Marketing,
		Personalization: req.Personalization,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consent": consent, "recorded": true})
}

// GetScripts handles GET /api/v1/preferences/scripts
func (h *APIHandler) GetScripts(c *gin.Context) {
	scripts, err := h.deps.Preferences.Scripts(c.Request.Context(), c.GetHeader(VisitorIDHeaderKey))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scripts)
}
