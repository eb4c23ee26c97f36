package orderControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/middleware"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/services/catalog"
	"github.com/craftcart/commerce-api/services/order"
	"github.com/craftcart/commerce-api/services/payment"
)

const testSecret = "test-secret"

type mockRepository struct {
	mu     sync.Mutex
	orders []models.Order
}

func (m *mockRepository) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uint(len(m.orders) + 1)
	m.orders = append(m.orders, *o)
	return nil
}

func (m *mockRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID == userID {
			out = append(out, m.orders[i])
		}
	}
	return out, nil
}

func (m *mockRepository) ListAll(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		out = append(out, m.orders[i])
	}
	return out, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, orderID uint, decide func(models.OrderStatus) (models.OrderStatus, error)) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			next, err := decide(m.orders[i].OrderStatus)
			if err != nil {
				return nil, err
			}
			m.orders[i].OrderStatus = next
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
}

func (m *mockRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, id uint) (catalog.Summary, error) {
	if id == 1 {
		return catalog.Summary{ID: 1, Name: "Mug", Price: 50}, nil
	}
	return catalog.Summary{}, apperr.Newf(apperr.KindNotFound, "product %d not found", id)
}

func setupRouter() (*gin.Engine, *mockRepository) {
	gin.SetMode(gin.TestMode)
	repo := &mockRepository{}
	ledger := order.NewLedger(repo, fakeResolver{}, nil, zap.NewNop(), nil)
	gateway := payment.NewGateway(payment.Config{
		KeyID:    "key_test",
		Secret:   testSecret,
		Currency: "INR",
	}, zap.NewNop(), nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, middleware.Principal{ID: "u1"})
	})
	r.POST("/api/orders", PlaceCODOrder(ledger))
	r.POST("/api/orders/verify", VerifyAndPlaceOrder(ledger, gateway))
	return r, repo
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutBody(intentID, paymentID, signature string) string {
	payload := map[string]interface{}{
		"products":     []map[string]interface{}{{"product_id": 1, "quantity": 2}},
		"total_amount": 100.0,
		"shipping_address": map[string]string{
			"full_name":   "Asha Nair",
			"address":     "12 Hill Road",
			"city":        "Kochi",
			"state":       "Kerala",
			"postal_code": "682001",
			"country":     "India",
			"phone":       "9999999999",
		},
	}
	if intentID != "" || paymentID != "" || signature != "" {
		payload["intent_id"] = intentID
		payload["payment_id"] = paymentID
		payload["signature"] = signature
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestVerifyBadSignatureCreatesNoOrder(t *testing.T) {
	r, repo := setupRouter()

	sig := payment.Sign("wrong-secret", "intent_123", "pay_456")
	w := do(r, http.MethodPost, "/api/orders/verify", checkoutBody("intent_123", "pay_456", sig))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SignatureMismatch", body.Kind)
	assert.Equal(t, 0, repo.count(), "a failed verification must persist nothing")
}

func TestVerifyMissingSignatureFieldsCreatesNoOrder(t *testing.T) {
	r, repo := setupRouter()

	w := do(r, http.MethodPost, "/api/orders/verify", checkoutBody("", "", ""))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BadRequest", body.Kind)
	assert.Equal(t, 0, repo.count())
}

func TestVerifyValidSignaturePlacesPaidOrder(t *testing.T) {
	r, repo := setupRouter()

	sig := payment.Sign(testSecret, "intent_123", "pay_456")
	w := do(r, http.MethodPost, "/api/orders/verify", checkoutBody("intent_123", "pay_456", sig))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, 1, repo.count())
	o := repo.orders[0]
	assert.Equal(t, models.PaymentMethodGateway, o.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, o.OrderStatus)
	assert.Equal(t, "intent_123", o.PaymentInfo.TransactionID)
	assert.Equal(t, "pay_456", o.PaymentInfo.PaymentID)
	assert.Equal(t, 100.0, o.TotalAmount)
}

func TestPlaceCODOrder(t *testing.T) {
	r, repo := setupRouter()

	w := do(r, http.MethodPost, "/api/orders", checkoutBody("", "", ""))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, 1, repo.count())
	o := repo.orders[0]
	assert.Equal(t, models.PaymentMethodCOD, o.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPending, o.PaymentStatus)
}
