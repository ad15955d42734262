package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvcoutinho/storefront-api/internal/domain"
	"github.com/mvcoutinho/storefront-api/internal/payment"
)

// StockError reports a cart line that cannot be fulfilled. It carries the
// item name so the caller sees which product is short.
type StockError struct {
	Item string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s", e.Item)
}

// StockReader reads a product's current stock.
type StockReader interface {
	Stock(ctx context.Context, id int64) (int, bool, error)
}

// OrderCreator persists a new order.
type OrderCreator interface {
	Create(ctx context.Context, order *domain.Order) error
}

// LinkCreator requests a hosted payment page.
type LinkCreator interface {
	CreateLink(ctx context.Context, pref payment.Preference) (string, error)
}

// Service runs the checkout flow: stock check, order insert, payment link.
// The steps are sequential and single-attempt. The stock check is read-only
// — it reserves nothing, so two concurrent checkouts can both pass it for
// the same inventory. An order inserted before a later step fails stays in
// the store with no payment link; the external reference is the only way to
// reconcile it.
type Service struct {
	products StockReader
	orders   OrderCreator
	payments LinkCreator
	siteURL  string
	logger   *slog.Logger
}

func NewService(products StockReader, orders OrderCreator, payments LinkCreator, siteURL string, logger *slog.Logger) *Service {
	return &Service{
		products: products,
		orders:   orders,
		payments: payments,
		siteURL:  siteURL,
		logger:   logger,
	}
}

// Request is one checkout attempt: customer info, the cart as the client
// saw it, and the optional id of a logged-in user.
type Request struct {
	Customer domain.CustomerInfo
	Items    []domain.CartItem
	UserID   string
}

// Checkout places an order and returns the hosted payment page URL.
func (s *Service) Checkout(ctx context.Context, req Request) (string, error) {
	if err := s.validateStock(ctx, req.Items); err != nil {
		return "", err
	}

	order, err := s.insertOrder(ctx, req, domain.StatusAwaitingPayment)
	if err != nil {
		return "", err
	}

	pref := payment.Preference{
		Payer:             payment.Payer{Email: req.Customer.Email, Name: req.Customer.Name},
		ExternalReference: order.ID,
		BackURLs: payment.BackURLs{
			Success: s.siteURL,
			Failure: s.siteURL,
			Pending: s.siteURL,
		},
	}
	pref.PaymentMethods.Installments = payment.Installments
	for _, item := range req.Items {
		pref.Items = append(pref.Items, payment.LineItem{
			Title:      item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  payment.CentsToUnits(item.PriceCents),
			CurrencyID: payment.CurrencyBRL,
		})
	}

	url, err := s.payments.CreateLink(ctx, pref)
	if err != nil {
		s.logger.Error("payment link creation failed", "error", err, "order_id", order.ID)
		return "", err
	}

	s.logger.Info("order placed", "order_id", order.ID, "total_cents", order.TotalCents)
	return url, nil
}

// TestCheckout runs the same stock check and insert but marks the order
// pre-approved and never contacts the payment processor.
func (s *Service) TestCheckout(ctx context.Context, req Request) error {
	if err := s.validateStock(ctx, req.Items); err != nil {
		return err
	}

	order, err := s.insertOrder(ctx, req, domain.StatusPaymentApprovedTest)
	if err != nil {
		return err
	}

	s.logger.Info("test order placed", "order_id", order.ID, "total_cents", order.TotalCents)
	return nil
}

// validateStock checks every line before anything is written. No lock, no
// decrement: a concurrent attempt can pass the same check.
func (s *Service) validateStock(ctx context.Context, items []domain.CartItem) error {
	for _, item := range items {
		stock, found, err := s.products.Stock(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if !found || stock < item.Quantity {
			return &StockError{Item: item.Name}
		}
	}
	return nil
}

func (s *Service) insertOrder(ctx context.Context, req Request, status string) (*domain.Order, error) {
	var total int64
	for _, item := range req.Items {
		total += int64(item.Quantity) * item.PriceCents
	}

	order := &domain.Order{
		CustomerName:    req.Customer.Name,
		CustomerEmail:   req.Customer.Email,
		ShippingAddress: req.Customer.Address,
		TotalCents:      total,
		Items:           req.Items,
		UserID:          req.UserID,
		Status:          status,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}
