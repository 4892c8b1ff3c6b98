package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"botdemo/internal/account"
	"botdemo/internal/model"
)

type profileRequest struct {
	Name           string `json:"name" binding:"max=128"`
	TelegramHandle string `json:"telegram_handle"`
	Bio            string `json:"bio" binding:"max=500"`
}

type settingsRequest struct {
	Theme                   string                        `json:"theme" binding:"required,oneof=dark light system"`
	NotificationPreferences model.NotificationPreferences `json:"notification_preferences"`
	Language                string                        `json:"language" binding:"required"`
}

type walletRequest struct {
	WalletAddress   string  `json:"wallet_address" binding:"required"`
	WalletName      string  `json:"wallet_name" binding:"max=64"`
	Blockchain      string  `json:"blockchain" binding:"required"`
	IsPrimary       bool    `json:"is_primary"`
	BalanceSnapshot float64 `json:"balance_snapshot" binding:"gte=0"`
}

func userID(c *gin.Context) string {
	return c.GetHeader(UserIDHeaderKey)
}

// GetProfile handles GET /api/v1/account/profile
func (h *APIHandler) GetProfile(c *gin.Context) {
	p, err := h.deps.Accounts.Profile(c.Request.Context(), userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile handles PUT /api/v1/account/profile
func (h *APIHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	p, err := h.deps.Accounts.UpdateProfile(c.Request.Context(), userID(c), account.ProfileInput{
		Name:           req.Name,
		TelegramHandle: req.TelegramHandle,
		Bio:            req.Bio,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetSettings handles GET /api/v1/account/settings
func (h *APIHandler) GetSettings(c *gin.Context) {
	s, err := h.deps.Accounts.Settings(c.Request.Context(), userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSettings handles PUT /api/v1/account/settings
func (h *APIHandler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	s, err := h.deps.Accounts.UpdateSettings(c.Request.Context(), userID(c), account.SettingsInput{
		Theme:                   req.Theme,
		NotificationPreferences: req.NotificationPreferences,
		Language:                req.Language,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListWallets handles GET /api/v1/account/wallets
func (h *APIHandler) ListWallets(c *gin.Context) {
	wallets, err := h.deps.Accounts.Wallets(c.Request.Context(), userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if wallets == nil {
		wallets = []model.Wallet{}
	}
	c.JSON(http.StatusOK, wallets)
}

// AddWallet handles POST /api/v1/account/wallets
func (h *APIHandler) AddWallet(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	w, err := h.deps.Accounts.AddWallet(c.Request.Context(), userID(c), account.WalletInput{
		WalletAddress:   req.WalletAddress,
		WalletName:      req.WalletName,
		Blockchain:      req.Blockchain,
		IsPrimary:       req.IsPrimary,
		BalanceSnapshot: req.BalanceSnapshot,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// SetPrimaryWallet handles PUT /api/v1/account/wallets/:id/primary
func (h *APIHandler) SetPrimaryWallet(c *gin.Context) {
	if err := h.deps.Accounts.SetPrimaryWallet(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveWallet handles DELETE /api/v1/account/wallets/:id
func (h *APIHandler) RemoveWallet(c *gin.Context) {
	if err := h.deps.Accounts.RemoveWallet(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
