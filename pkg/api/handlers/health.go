package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chalepay/voucher-api/pkg/voucher"
)

// HealthHandler answers liveness probes and the stock check.
type HealthHandler struct {
	vouchers *voucher.Service
}

func NewHealthHandler(vouchers *voucher.Service) *HealthHandler {
	return &HealthHandler{vouchers: vouchers}
}

// Root handles GET /. Uptime monitors and the gateway's endpoint check hit
// this, so it stays a plain text response.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "ChalePay voucher service is running")
}

// Health handles GET /health and includes the remaining voucher count.
func (h *HealthHandler) Health(c echo.Context) error {
	remaining, err := h.vouchers.Remaining(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "degraded",
			"error":  "voucher store unreachable",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"vouchers_remaining": remaining,
	})
}
