// Package paypal talks to the PayPal Orders v2 API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/commands"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath  = "/v1/oauth2/token"
	ordersPath = "/v2/checkout/orders"

	maxResponseBytes = 1 << 20

	opCreateOrder  = "create_order"
	opCaptureOrder = "capture_order"
)

type Client struct {
	http    *http.Client
	baseURL string
	brand   string
}

var _ commands.PaymentProvider = (*Client)(nil)

// NewClient returns a client whose requests carry a client-credentials bearer
// token. Tokens are cached and refreshed by the oauth2 transport.
func NewClient(cfg config.PayPalConfig, brand string) *Client {
	baseURL := cfg.APIBaseURL()
	base := &http.Client{Timeout: cfg.Timeout}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	httpClient := cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
	httpClient.Timeout = cfg.Timeout

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		brand:   brand,
	}
}

func (c *Client) CreateOrder(ctx context.Context, req commands.OrderRequest) (*commands.ProviderOrder, error) {
	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: req.ReferenceID,
			Description: req.Description,
			Amount: amount{
				CurrencyCode: req.Amount.Currency(),
				Value:        req.Amount.Decimal(),
			},
		}},
		ApplicationContext: applicationContext{
			BrandName:          c.brand,
			ReturnURL:          req.ReturnURL,
			CancelURL:          req.CancelURL,
			ShippingPreference: "NO_SHIPPING",
			UserAction:         "PAY_NOW",
		},
	}

	raw, err := c.do(ctx, opCreateOrder, c.baseURL+ordersPath, body)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode create order response"), errs.ErrProvider)
	}

	return &commands.ProviderOrder{
		ID:          resp.ID,
		Status:      resp.Status,
		ApprovalURL: resp.approvalURL(),
		Raw:         raw,
	}, nil
}

func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*commands.ProviderCapture, error) {
	endpoint := c.baseURL + ordersPath + "/" + url.PathEscape(orderID) + "/capture"

	raw, err := c.do(ctx, opCaptureOrder, endpoint, struct{}{})
	if err != nil {
		return nil, err
	}

	var resp captureResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode capture response"), errs.ErrProvider)
	}

	return &commands.ProviderCapture{
		OrderID:    resp.ID,
		Status:     resp.Status,
		CaptureID:  resp.captureID(),
		PayerID:    resp.Payer.PayerID,
		PayerEmail: resp.Payer.EmailAddress,
		Raw:        raw,
	}, nil
}

// do posts a JSON body and returns the raw 2xx response body.
func (c *Client) do(ctx context.Context, op, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Wrap(err, "encode provider request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "build provider request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := &commands.ProviderError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Payload:    asJSON(raw),
		}
		slog.Error("payment provider rejected request",
			"operation", op,
			"status", resp.StatusCode,
			"payload", string(perr.Payload))
		return nil, errs.Mark(perr, errs.ErrProvider)
	}

	return asJSON(raw), nil
}

func classifyTransportError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		slog.Error("payment provider timed out", "operation", op, "error", err.Error())
		return errs.Mark(errs.Wrapf(err, "paypal %s", op), errs.ErrProviderTimeout)
	}

	// the token endpoint rejected the credentials
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		slog.Error("payment provider token request failed", "operation", op, "status", status)
		return errs.Mark(&commands.ProviderError{
			Operation:  op,
			StatusCode: status,
			Payload:    asJSON(retrieveErr.Body),
		}, errs.ErrProvider)
	}

	slog.Error("payment provider unreachable", "operation", op, "error", err.Error())
	return errs.Mark(errs.Wrapf(err, "paypal %s", op), errs.ErrProvider)
}

// asJSON keeps valid JSON as is and quotes anything else.
func asJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
