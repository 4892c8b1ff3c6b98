package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"botdemo/internal/account"
)

type newsletterRequest struct {
	Email string `json:"email" binding:"required"`
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type waitlistRequest struct {
	Email          string `json:"email" binding:"required"`
	Name           string `json:"name"`
	TelegramHandle string `json:"telegram_handle"`
	BotType        string `json:"bot_type"`
}

// SubscribeNewsletter handles POST /api/v1/forms/newsletter
func (h *APIHandler) SubscribeNewsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	if err := h.deps.Forms.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "subscribed"})
}

// SendContact handles POST /api/v1/forms/contact
func (h *APIHandler) SendContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	err := h.deps.Forms.SendContact(c.Request.Context(), account.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "received"})
}

// JoinWaitlist handles POST /api/v1/forms/waitlist
func (h *APIHandler) JoinWaitlist(c *gin.Context) {
	var req waitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, err)
		return
	}
	err := h.deps.Forms.JoinWaitlist(c.Request.Context(), account.WaitlistInput{
		Email:          req.Email,
		Name:           req.Name,
		TelegramHandle: req.TelegramHandle,
		BotType:        req.BotType,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "joined"})
}
