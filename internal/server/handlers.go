package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paygate/internal/database"
	"paygate/internal/service"
	"paygate/internal/gateway/geidea"
)

type Handler struct {
	svc              *service.WebhookService
	db               database.Service
	geideaSuccessURL string
	geideaFailureURL string
	log              *zap.Logger
}

func NewHandler(svc *service.WebhookService, db database.Service, successURL, failureURL string, log *zap.Logger) *Handler {
	return &Handler{
		svc:              svc,
		db:               db,
		geideaSuccessURL: successURL,
		geideaFailureURL: failureURL,
		log:              log,
	}
}

// SkipCashWebhook handles POST /webhooks/skipcash. SkipCash carries the
// base64 digest in the Authorization header.
func (h *Handler) SkipCashWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	res, err := h.svc.HandleSkipCash(c.Request.Context(), body, c.GetHeader("Authorization"))
	h.respond(c, res, err)
}

// GeideaWebhook handles POST /webhooks/geidea.
func (h *Handler) GeideaWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	res, err := h.svc.HandleGeidea(c.Request.Context(), body, c.GetHeader(geidea.SignatureHeader))
	h.respond(c, res, err)
}

func (h *Handler) respond(c *gin.Context, res service.Result, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"accepted": true, "result": res})
	case errors.Is(err, service.ErrMissingSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature"})
	case errors.Is(err, service.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
	case errors.Is(err, service.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
	case errors.Is(err, service.ErrAmountMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": "amount mismatch"})
	default:
		// Store failures surface as 500 so the vendor's retry re-delivers.
		h.log.Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// GeideaReturn handles the shopper's return-URL redirect. It is unsigned
// and never authoritative: it only routes the browser, state changes come
// from the webhook.
func (h *Handler) GeideaReturn(c *gin.Context) {
	orderID := c.Query("orderId")
	status := c.Query("status")
	responseCode := c.Query("responseCode")

	target := h.geideaFailureURL
	if geidea.SuccessRedirect(status, responseCode) {
		target = h.geideaSuccessURL
	}
	if orderID != "" {
		sep := "?"
		if u, err := url.Parse(target); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target = target + sep + "orderId=" + url.QueryEscape(orderID)
	}
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.db.Health())
}
