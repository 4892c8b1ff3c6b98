package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLanguages handles GET /api/v1/i18n/languages
func (h *APIHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": h.deps.Translator.Languages()})
}

// GetDictionary handles GET /api/v1/i18n/:lang
func (h *APIHandler) GetDictionary(c *gin.Context) {
	dict, err := h.deps.Translator.Dictionary(c.Param("lang"))
	if err != nil {
		h.handleError(c, err, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, dict)
}

// Translate handles GET /api/v1/i18n/:lang/:key. Missing entries resolve to
// the key itself.
func (h *APIHandler) Translate(c *gin.Context) {
	lang, key := c.Param("lang"), c.Param("key")
	c.JSON(http.StatusOK, gin.H{
		"language": lang,
		"key":      key,
		"value":    h.deps.Translator.T(lang, key),
	})
}
