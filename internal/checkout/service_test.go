package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mvcoutinho/storefront-api/internal/domain"
	"github.com/mvcoutinho/storefront-api/internal/payment"
)

type fakeStock struct {
	stock map[int64]int
	err   error
}

func (f *fakeStock) Stock(_ context.Context, id int64) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	stock, ok := f.stock[id]
	return stock, ok, nil
}

type fakeOrders struct {
	created []*domain.Order
	err     error
}

func (f *fakeOrders) Create(_ context.Context, order *domain.Order) error {
	if f.err != nil {
		return f.err
	}
	order.ID = "order-1"
	f.created = append(f.created, order)
	return nil
}

type fakePayments struct {
	pref  payment.Preference
	url   string
	err   error
	calls int
}

func (f *fakePayments) CreateLink(_ context.Context, pref payment.Preference) (string, error) {
	f.calls++
	f.pref = pref
	return f.url, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() Request {
	return Request{
		Customer: domain.CustomerInfo{Name: "Ana", Email: "ana@example.com", Address: "Rua A, 1"},
		Items: []domain.CartItem{
			{ProductID: 1, Name: "Mug", Quantity: 2, PriceCents: 4990},
			{ProductID: 2, Name: "Shirt", Quantity: 1, PriceCents: 9900},
		},
		UserID: "user-1",
	}
}

func TestService_Checkout(t *testing.T) {
	t.Run("places the order and returns the payment URL", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5, 2: 1}}
		orders := &fakeOrders{}
		payments := &fakePayments{url: "https://pay.example.com/pref-1"}
		s := NewService(products, orders, payments, "https://shop.example.com", testLogger())

		url, err := s.Checkout(context.Background(), sampleRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != "https://pay.example.com/pref-1" {
			t.Errorf("unexpected url: %s", url)
		}

		if len(orders.created) != 1 {
			t.Fatalf("expected exactly one order, got %d", len(orders.created))
		}
		order := orders.created[0]
		if order.Status != domain.StatusAwaitingPayment {
			t.Errorf("expected status %q, got %q", domain.StatusAwaitingPayment, order.Status)
		}
		if order.TotalCents != 2*4990+9900 {
			t.Errorf("unexpected total: %d", order.TotalCents)
		}
		if order.UserID != "user-1" {
			t.Errorf("expected user id 'user-1', got %s", order.UserID)
		}
		if len(order.Items) != 2 {
			t.Errorf("expected the cart snapshot, got %+v", order.Items)
		}

		if payments.pref.ExternalReference != order.ID {
			t.Errorf("expected external reference %q, got %q", order.ID, payments.pref.ExternalReference)
		}
		if payments.pref.Payer.Email != "ana@example.com" {
			t.Errorf("unexpected payer: %+v", payments.pref.Payer)
		}
		if len(payments.pref.Items) != 2 {
			t.Fatalf("expected 2 line items, got %d", len(payments.pref.Items))
		}
		if payments.pref.Items[0].UnitPrice != 49.9 {
			t.Errorf("expected unit price 49.9, got %v", payments.pref.Items[0].UnitPrice)
		}
		if payments.pref.Items[0].CurrencyID != payment.CurrencyBRL {
			t.Errorf("expected currency %s, got %s", payment.CurrencyBRL, payments.pref.Items[0].CurrencyID)
		}
		if payments.pref.BackURLs.Success != "https://shop.example.com" ||
			payments.pref.BackURLs.Failure != "https://shop.example.com" ||
			payments.pref.BackURLs.Pending != "https://shop.example.com" {
			t.Errorf("expected all back urls to be the site url: %+v", payments.pref.BackURLs)
		}
		if payments.pref.PaymentMethods.Installments != payment.Installments {
			t.Errorf("expected %d installments, got %d", payment.Installments, payments.pref.PaymentMethods.Installments)
		}
	})

	t.Run("short stock aborts before any insert", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5, 2: 0}}
		orders := &fakeOrders{}
		payments := &fakePayments{url: "https://pay.example.com/x"}
		s := NewService(products, orders, payments, "https://shop.example.com", testLogger())

		_, err := s.Checkout(context.Background(), sampleRequest())

		var stockErr *StockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected a StockError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Shirt") {
			t.Errorf("expected the message to name the item, got %q", err.Error())
		}
		if len(orders.created) != 0 {
			t.Errorf("expected no order insert, got %d", len(orders.created))
		}
		if payments.calls != 0 {
			t.Errorf("expected no payment call, got %d", payments.calls)
		}
	})

	t.Run("quantity above stock aborts", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 2, 2: 1}}
		orders := &fakeOrders{}
		s := NewService(products, orders, &fakePayments{}, "https://shop.example.com", testLogger())

		req := sampleRequest()
		req.Items = []domain.CartItem{{ProductID: 1, Name: "Mug", Quantity: 3, PriceCents: 4990}}

		_, err := s.Checkout(context.Background(), req)
		if err == nil || !strings.Contains(err.Error(), "Mug") {
			t.Fatalf("expected a stock failure naming 'Mug', got %v", err)
		}
		if len(orders.created) != 0 {
			t.Errorf("expected no order insert, got %d", len(orders.created))
		}
	})

	t.Run("unknown product aborts", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5}}
		orders := &fakeOrders{}
		s := NewService(products, orders, &fakePayments{}, "https://shop.example.com", testLogger())

		req := sampleRequest()
		req.Items = []domain.CartItem{{ProductID: 99, Name: "Ghost", Quantity: 1, PriceCents: 100}}

		_, err := s.Checkout(context.Background(), req)
		if err == nil || !strings.Contains(err.Error(), "Ghost") {
			t.Fatalf("expected a stock failure naming 'Ghost', got %v", err)
		}
	})

	t.Run("store failure on insert surfaces", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5, 2: 5}}
		orders := &fakeOrders{err: errors.New("connection refused")}
		payments := &fakePayments{}
		s := NewService(products, orders, payments, "https://shop.example.com", testLogger())

		_, err := s.Checkout(context.Background(), sampleRequest())
		if err == nil || err.Error() != "connection refused" {
			t.Fatalf("expected 'connection refused', got %v", err)
		}
		if payments.calls != 0 {
			t.Errorf("expected no payment call after a failed insert, got %d", payments.calls)
		}
	})

	t.Run("processor failure leaves the inserted order behind", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5, 2: 5}}
		orders := &fakeOrders{}
		payments := &fakePayments{err: errors.New("processor unavailable")}
		s := NewService(products, orders, payments, "https://shop.example.com", testLogger())

		_, err := s.Checkout(context.Background(), sampleRequest())
		if err == nil {
			t.Fatal("expected an error")
		}
		// No rollback: the order row stays in Awaiting Payment.
		if len(orders.created) != 1 {
			t.Fatalf("expected the order to remain inserted, got %d", len(orders.created))
		}
		if orders.created[0].Status != domain.StatusAwaitingPayment {
			t.Errorf("unexpected status: %s", orders.created[0].Status)
		}
	})
}

func TestService_TestCheckout(t *testing.T) {
	t.Run("inserts a pre-approved order and skips the processor", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 5, 2: 5}}
		orders := &fakeOrders{}
		payments := &fakePayments{url: "https://pay.example.com/x"}
		s := NewService(products, orders, payments, "https://shop.example.com", testLogger())

		if err := s.TestCheckout(context.Background(), sampleRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(orders.created) != 1 {
			t.Fatalf("expected exactly one order, got %d", len(orders.created))
		}
		if orders.created[0].Status != domain.StatusPaymentApprovedTest {
			t.Errorf("expected status %q, got %q", domain.StatusPaymentApprovedTest, orders.created[0].Status)
		}
		if payments.calls != 0 {
			t.Errorf("expected the processor to never be called, got %d calls", payments.calls)
		}
	})

	t.Run("runs the same stock check", func(t *testing.T) {
		products := &fakeStock{stock: map[int64]int{1: 0}}
		orders := &fakeOrders{}
		s := NewService(products, orders, &fakePayments{}, "https://shop.example.com", testLogger())

		req := sampleRequest()
		req.Items = []domain.CartItem{{ProductID: 1, Name: "Mug", Quantity: 1, PriceCents: 4990}}

		err := s.TestCheckout(context.Background(), req)
		if err == nil || !strings.Contains(err.Error(), "Mug") {
			t.Fatalf("expected a stock failure, got %v", err)
		}
		if len(orders.created) != 0 {
			t.Errorf("expected no order insert, got %d", len(orders.created))
		}
	})
}
