package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// CurrencyBRL is the only currency the store sells in.
const CurrencyBRL = "BRL"

// Installments offered on every payment link.
const Installments = 12

type LineItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type Payer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// Preference describes one hosted payment page request. ExternalReference
// carries the order id so payments can be matched back to orders later.
type Preference struct {
	Items             []LineItem `json:"items"`
	Payer             Payer      `json:"payer"`
	ExternalReference string     `json:"external_reference"`
	BackURLs          BackURLs   `json:"back_urls"`
	PaymentMethods    struct {
		Installments int `json:"installments"`
	} `json:"payment_methods"`
}

// Client requests hosted payment pages from the external processor.
type Client struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewClient(baseURL, accessToken string, client *http.Client) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      client,
	}
}

// CreateLink registers the preference and returns the hosted checkout URL.
func (c *Client) CreateLink(ctx context.Context, pref Preference) (string, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return "", errors.New(apiErr.Message)
		}
		return "", fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	var created struct {
		InitPoint string `json:"init_point"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	if created.InitPoint == "" {
		return "", errors.New("payment processor response missing init_point")
	}

	return created.InitPoint, nil
}

// CentsToUnits converts an integer cents amount to the decimal currency
// units the processor's API expects.
func CentsToUnits(cents int64) float64 {
	return float64(cents) / 100
}
