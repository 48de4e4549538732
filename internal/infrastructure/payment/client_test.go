package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.Config{Payment: config.PaymentConfig{
		BaseURL:    baseURL,
		SecretKey:  "sk_test_123",
		SuccessURL: "https://app.example.com/ok",
		CancelURL:  "https://app.example.com/cancel",
		Timeout:    time.Second,
	}})
}

func TestClient_CheckoutFlow(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/customers":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "owner@example.com", r.PostForm.Get("email"))
			assert.Equal(t, "7", r.PostForm.Get("metadata[library_id]"))
			_, _ = w.Write([]byte(`{"id":"cus_1"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
			assert.Equal(t, "price_basic", r.PostForm.Get("line_items[0][price]"))
			assert.Equal(t, "subscription", r.PostForm.Get("mode"))
			assert.Equal(t, "https://app.example.com/ok", r.PostForm.Get("success_url"))
			_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://pay.example.com/cs_1"}`))
		case r.Method == http.MethodDelete:
			deleted = r.URL.Path
			_, _ = w.Write([]byte(`{"id":"cus_1","deleted":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	customerID, err := client.CreateCustomer(ctx, "owner@example.com", 7)
	require.NoError(t, err)
	assert.Equal(t, "cus_1", customerID)

	session, err := client.CreateCheckoutSession(ctx, CheckoutParams{CustomerID: customerID, PriceID: "price_basic", LibraryID: 7})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_1", session.URL)

	require.NoError(t, client.DeleteCustomer(ctx, customerID))
	assert.Equal(t, "/v1/customers/cus_1", deleted)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"No such price: 'price_x'","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateCheckoutSession(context.Background(), CheckoutParams{CustomerID: "cus_1", PriceID: "price_x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such price")
}
