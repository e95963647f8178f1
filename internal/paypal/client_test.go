package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer поднимает заглушку API: выдаёт токен и отвечает на запрос
// ордера заранее заданным обработчиком.
func newTestServer(t *testing.T, orderHandler http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "secret", pass)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/v2/checkout/orders", orderHandler)
	mux.HandleFunc("/v2/checkout/orders/", orderHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient("client-id", "secret", "sandbox")
	c.apiURL = srv.URL
	return c
}

func testOrderRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{
			{Amount: Amount{CurrencyCode: "USD", Value: "50.00"}},
		},
		ApplicationContext: ApplicationContext{
			BrandName: "JUNTIMO",
			ReturnURL: "https://app.example.com/auth/paypalSuccess",
			CancelURL: "https://app.example.com/auth/paypalCancel",
		},
	}
}

func TestClient_CreateOrder(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErr     error
		wantApprove string
	}{
		{
			name: "successful order with approve link",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

				var got CreateOrderRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, "CAPTURE", got.Intent)
				assert.Equal(t, "JUNTIMO", got.ApplicationContext.BrandName)

				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(Order{
					ID:     "ORDER-1",
					Status: "CREATED",
					Links: []Link{
						{Href: "https://paypal.test/self", Rel: "self"},
						{Href: "https://paypal.test/approve", Rel: "approve"},
					},
				})
			},
			wantApprove: "https://paypal.test/approve",
		},
		{
			name: "response without approve link",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(Order{ID: "ORDER-1", Status: "CREATED"})
			},
			wantErr: ErrRequestFailed,
		},
		{
			name: "gateway returns error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"name":"UNPROCESSABLE_ENTITY"}`, http.StatusUnprocessableEntity)
			},
			wantErr: ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)
			client := newTestClient(srv)

			order, err := client.CreateOrder(context.Background(), testOrderRequest())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				require.NotNil(t, order)
				assert.Equal(t, "ORDER-1", order.ID)
				assert.Equal(t, tt.wantApprove, order.ApproveLink())
			}
		})
	}
}

func TestClient_CreateOrder_Unconfigured(t *testing.T) {
	client := NewClient("", "", "sandbox")

	order, err := client.CreateOrder(context.Background(), testOrderRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, order)
}

func TestClient_CaptureOrder(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    error
		wantStatus string
	}{
		{
			name: "completed capture",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/v2/checkout/orders/ORDER-1/capture")

				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(CaptureResult{
					ID:     "ORDER-1",
					Status: StatusCompleted,
					PurchaseUnits: []CapturePurchaseUnit{
						{Payments: CapturePayments{Captures: []CaptureDetails{
							{ID: "CAP-1", Status: StatusCompleted, Amount: Amount{CurrencyCode: "USD", Value: "50.00"}},
						}}},
					},
				})
			},
			wantStatus: StatusCompleted,
		},
		{
			name: "declined capture is a result, not an error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(CaptureResult{ID: "ORDER-1", Status: "DECLINED"})
			},
			wantStatus: "DECLINED",
		},
		{
			name: "gateway failure",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			wantErr: ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)
			client := newTestClient(srv)

			capture, err := client.CaptureOrder(context.Background(), "ORDER-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, capture)
			} else {
				require.NoError(t, err)
				require.NotNil(t, capture)
				assert.Equal(t, tt.wantStatus, capture.Status)
			}
		})
	}
}

func TestClient_CaptureOrder_Unconfigured(t *testing.T) {
	client := NewClient("", "", "sandbox")

	capture, err := client.CaptureOrder(context.Background(), "ORDER-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, capture)
}
