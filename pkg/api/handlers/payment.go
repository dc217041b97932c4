package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/chalepay/voucher-api/pkg/api/errors"
	"github.com/chalepay/voucher-api/pkg/affiliate"
	"github.com/chalepay/voucher-api/pkg/email"
	"github.com/chalepay/voucher-api/pkg/metrics"
	"github.com/chalepay/voucher-api/pkg/models"
	"github.com/chalepay/voucher-api/pkg/payments"
	"github.com/chalepay/voucher-api/pkg/paystack"
	"github.com/chalepay/voucher-api/pkg/phone"
	"github.com/chalepay/voucher-api/pkg/sms"
	"github.com/chalepay/voucher-api/pkg/voucher"
)

// SignatureHeader carries the gateway's HMAC over the raw webhook body.
const SignatureHeader = "x-paystack-signature"

// TransactionInitializer creates payment sessions at the gateway.
type TransactionInitializer interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResponse, error)
}

// PaymentHandler handles payment creation and webhook fulfillment.
type PaymentHandler struct {
	gateway       TransactionInitializer
	vouchers      *voucher.Service
	guard         payments.Guard
	smsService    *sms.Service
	emailService  *email.Service
	affiliates    *affiliate.Service
	webhookSecret string
	priceGHS      float64
	validator     *validator.Validate
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	gateway TransactionInitializer,
	vouchers *voucher.Service,
	guard payments.Guard,
	smsService *sms.Service,
	emailService *email.Service,
	affiliates *affiliate.Service,
	webhookSecret string,
	priceGHS float64,
) *PaymentHandler {
	return &PaymentHandler{
		gateway:       gateway,
		vouchers:      vouchers,
		guard:         guard,
		smsService:    smsService,
		emailService:  emailService,
		affiliates:    affiliates,
		webhookSecret: webhookSecret,
		priceGHS:      priceGHS,
		validator:     validator.New(),
	}
}

// CreatePayment handles POST /create-payment. It validates buyer details,
// opens a gateway session for the fixed voucher price and returns the
// authorization URL the buyer completes payment at.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req models.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	normalized := phone.Normalize(req.Phone)
	if !phone.LikelyValid(normalized) {
		// Advisory only. The number still rides along in metadata; delivery
		// failure surfaces later on the SMS side.
		log.Printf("⚠️ Phone %s does not look like a valid number, continuing", normalized)
	}

	session, err := h.gateway.InitializeTransaction(c.Request().Context(), paystack.InitializeRequest{
		Email:  req.Email,
		Amount: int64(h.priceGHS * 100),
		Metadata: paystack.Metadata{
			Name:  req.Name,
			Phone: normalized,
			Email: req.Email,
			Ref:   req.Ref,
		},
	})
	if err != nil {
		return apierrors.GatewayError(c, err)
	}

	metrics.PaymentsInitialized.Inc()
	log.Printf("💳 Payment session %s created for %s", session.Reference, normalized)

	return c.JSON(http.StatusOK, models.CreatePaymentResponse{
		AuthorizationURL: session.AuthorizationURL,
		Reference:        session.Reference,
		Amount:           h.priceGHS,
	})
}

// Webhook handles POST /webhook. It verifies the gateway signature over the
// raw body, allocates a voucher for a successful charge and delivers it.
// Every verified delivery is acknowledged with 200 so the gateway stops
// retrying; only a store failure during allocation returns 500.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apierrors.ValidationError(c, err)
	}

	signature := c.Request().Header.Get(SignatureHeader)
	if !paystack.VerifySignature(h.webhookSecret, body, signature) {
		metrics.WebhookEvents.WithLabelValues("invalid_signature").Inc()
		log.Printf("❌ Webhook signature verification failed")
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_signature",
			Message: "Webhook signature verification failed.",
		})
	}

	event, err := paystack.ParseEvent(body)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		log.Printf("⚠️ Dropping malformed webhook body: %v", err)
		return c.JSON(http.StatusOK, models.WebhookAck{Status: "ignored"})
	}

	if !event.IsSuccessfulCharge() {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return c.JSON(http.StatusOK, models.WebhookAck{Status: "ignored"})
	}

	ctx := c.Request().Context()
	reference := event.Data.Reference
	if reference == "" {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		log.Printf("⚠️ Dropping charge event without a reference")
		return c.JSON(http.StatusOK, models.WebhookAck{Status: "ignored"})
	}

	seen, err := h.guard.Seen(ctx, reference)
	if err != nil {
		// Fail open: a broken payment log must not block voucher delivery.
		log.Printf("⚠️ Duplicate check failed for %s, treating as new: %v", reference, err)
	}
	if seen {
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		log.Printf("🔁 Reference %s already fulfilled, acknowledging retry", reference)
		return c.JSON(http.StatusOK, models.WebhookAck{Status: "already processed"})
	}

	buyerPhone := phone.Normalize(event.BuyerPhone())
	buyerEmail := event.BuyerEmail()
	affiliateCode := event.Data.Metadata.Ref

	alloc, err := h.vouchers.Allocate(ctx, buyerPhone, buyerEmail, affiliateCode)
	if err != nil {
		if errors.Is(err, voucher.ErrNoVouchers) {
			metrics.WebhookEvents.WithLabelValues("no_vouchers").Inc()
			log.Printf("🚨 Voucher stock exhausted, payment %s received with nothing to issue", reference)
			return c.JSON(http.StatusOK, models.WebhookAck{Status: "no vouchers"})
		}
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return apierrors.StorageError(c, err)
	}

	metrics.VouchersIssued.Inc()
	metrics.WebhookEvents.WithLabelValues("ok").Inc()
	log.Printf("✅ Voucher %s allocated for payment %s", alloc.Serial, reference)

	amountGHS := float64(event.Data.Amount) / 100

	// The voucher is committed. Everything below is best effort with its own
	// failure boundary; no error past this point changes the response.
	if err := h.guard.Record(ctx, payments.Record{
		Reference:     reference,
		Phone:         buyerPhone,
		Email:         buyerEmail,
		Amount:        amountGHS,
		VoucherSerial: alloc.Serial,
		AffiliateCode: affiliateCode,
	}); err != nil {
		log.Printf("⚠️ Failed to log payment %s: %v", reference, err)
	}

	if err := h.smsService.SendVoucher(ctx, buyerPhone, alloc.Serial, alloc.PIN); err != nil {
		metrics.SMSSendFailures.Inc()
		log.Printf("❌ Failed to SMS voucher %s to %s: %v", alloc.Serial, buyerPhone, err)
	}

	if buyerEmail != "" {
		if err := h.emailService.SendVoucherCopy(buyerEmail, event.Data.Metadata.Name, alloc.Serial, alloc.PIN); err != nil {
			metrics.EmailSendFailures.Inc()
			log.Printf("⚠️ Failed to email voucher copy to %s: %v", buyerEmail, err)
		}
	}

	if affiliateCode != "" {
		if err := h.affiliates.RecordSale(ctx, affiliate.Sale{
			Code:          affiliateCode,
			BuyerPhone:    buyerPhone,
			Amount:        amountGHS,
			VoucherSerial: alloc.Serial,
		}); err != nil {
			log.Printf("⚠️ Failed to record sale for %s: %v", affiliateCode, err)
		}
		if err := h.affiliates.Accrue(ctx, affiliateCode); err != nil {
			log.Printf("⚠️ Failed to credit affiliate %s: %v", affiliateCode, err)
		} else {
			metrics.AffiliateSales.Inc()
		}
	}

	return c.JSON(http.StatusOK, models.WebhookAck{Status: "ok"})
}
