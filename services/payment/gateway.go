package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/metrics"
	"github.com/craftcart/commerce-api/models"
)

// Result is the engine's verdict handed to the order ledger. It is never
// built from client-asserted payment state.
type Result struct {
	Method models.PaymentMethod
	Status models.PaymentStatus
	Info   models.PaymentInfo
}

// COD accepts unconditionally; payment is reconciled manually at delivery.
func COD() Result {
	return Result{Method: models.PaymentMethodCOD, Status: models.PaymentStatusPending}
}

// Intent is a gateway-side handle for a pending payment. Amount is in the
// smallest currency unit.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type Config struct {
	KeyID    string
	Secret   string
	BaseURL  string
	Currency string
}

// Gateway talks to the hosted payment provider. It is constructed once and
// injected; nothing in this package keeps process-wide state.
type Gateway struct {
	cfg     Config
	client  *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewGateway(cfg Config, log *zap.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
		metrics: m,
	}
}

// CreateIntent opens a payment intent for the given major-unit amount.
// Transport failures are transient and retried once; a reachable gateway
// that answers with an error is not retried.
func (g *Gateway) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	payload := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": g.cfg.Currency,
		"receipt":  "rcpt_" + uuid.NewString(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to encode intent request", err)
	}

	var resp *http.Response
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			g.cfg.BaseURL+"/orders", bytes.NewReader(body))
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to build intent request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(g.cfg.KeyID, g.cfg.Secret)

		resp, err = g.client.Do(req)
		if err == nil {
			break
		}
		g.log.Warn("gateway intent request failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
		if attempt == 1 {
			return nil, apperr.Wrap(apperr.KindGatewayUnavailable, "payment gateway unreachable", err)
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGatewayUnavailable, "failed to read gateway response", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.log.Error("gateway rejected intent",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return nil, apperr.Newf(apperr.KindGatewayUnavailable,
			"payment gateway returned status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, apperr.Wrap(apperr.KindGatewayUnavailable, "malformed gateway response", err)
	}
	if intent.ID == "" {
		return nil, apperr.New(apperr.KindGatewayUnavailable, "gateway returned empty intent id")
	}
	return &intent, nil
}

// Verify recomputes the confirmation signature and compares it in constant
// time. A mismatch is final; the caller must not retry or partially trust
// the confirmation. Missing fields are a request problem, not a crypto one.
func (g *Gateway) Verify(intentID, paymentID, signature string) (Result, error) {
	if intentID == "" || paymentID == "" || signature == "" {
		return Result{}, apperr.New(apperr.KindBadRequest, "payment details missing")
	}

	expected := Sign(g.cfg.Secret, intentID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		g.metrics.Verification("mismatch")
		g.log.Warn("payment signature mismatch",
			zap.String("intent_id", intentID), zap.String("payment_id", paymentID))
		return Result{}, apperr.New(apperr.KindSignatureMismatch, "invalid payment signature")
	}

	g.metrics.Verification("verified")
	return Result{
		Method: models.PaymentMethodGateway,
		Status: models.PaymentStatusPaid,
		Info: models.PaymentInfo{
			TransactionID: intentID,
			PaymentID:     paymentID,
			Signature:     signature,
		},
	}, nil
}

// Sign computes the hex HMAC-SHA256 of "intentID|paymentID" under secret,
// the signature scheme the gateway uses for payment confirmations.
func Sign(secret, intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", intentID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}
