package checkout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvcoutinho/storefront-api/internal/domain"
)

const checkoutBody = `{
	"customerInfo": {"name": "Ana", "email": "ana@example.com", "address": "Rua A, 1"},
	"cart": [{"product_id": 1, "name": "Mug", "quantity": 2, "price_cents": 4990}],
	"userId": "user-1"
}`

func TestHandler_HandleCheckout(t *testing.T) {
	t.Run("responds with the payment URL", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5}}
		payments := &fakePayments{url: "https://pay.example.com/pref-1"}
		s := NewService(products, &fakeOrders{}, payments, "https://shop.example.com", testLogger())
		h := NewHandler(s, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody))
		rec := httptest.NewRecorder()
		h.HandleCheckout(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["status"] != "success" {
			t.Errorf("expected status 'success', got %s", resp["status"])
		}
		if resp["paymentUrl"] != "https://pay.example.com/pref-1" {
			t.Errorf("unexpected payment url: %s", resp["paymentUrl"])
		}
	})

	t.Run("stock shortfall is a 400 naming the item", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 1}}
		s := NewService(products, &fakeOrders{}, &fakePayments{}, "https://shop.example.com", testLogger())
		h := NewHandler(s, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody))
		rec := httptest.NewRecorder()
		h.HandleCheckout(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}

		var resp map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["status"] != "error" {
			t.Errorf("expected status 'error', got %s", resp["status"])
		}
		if !strings.Contains(resp["message"], "Mug") {
			t.Errorf("expected the message to name the item, got %q", resp["message"])
		}
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		s := NewService(&fakeStock{}, &fakeOrders{}, &fakePayments{}, "https://shop.example.com", testLogger())
		h := NewHandler(s, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`not json`))
		rec := httptest.NewRecorder()
		h.HandleCheckout(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleTestCheckout(t *testing.T) {
	t.Run("responds success with no payment URL", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5}}
		orders := &fakeOrders{}
		payments := &fakePayments{}
		s := NewService(products, orders, payments, "https://shop.example.com", testLogger())
		h := NewHandler(s, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/checkout-teste", strings.NewReader(checkoutBody))
		rec := httptest.NewRecorder()
		h.HandleTestCheckout(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["status"] != "success" {
			t.Errorf("expected status 'success', got %s", resp["status"])
		}
		if _, ok := resp["paymentUrl"]; ok {
			t.Error("expected no payment url in test checkout response")
		}

		if payments.calls != 0 {
			t.Errorf("expected no payment calls, got %d", payments.calls)
		}
		if len(orders.created) != 1 || orders.created[0].Status != domain.StatusPaymentApprovedTest {
			t.Errorf("unexpected orders: %+v", orders.created)
		}
	})
}
