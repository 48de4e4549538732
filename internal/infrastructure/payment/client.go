// Package payment Stripe风格的支付平台客户端（表单编码请求）
//
// 只覆盖订阅结账需要的三个接口：创建客户、删除客户、创建结账会话。
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/pkg/circuitbreaker"
)

// CheckoutSession 结账会话
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutParams 创建结账会话的参数
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	LibraryID  uint
}

// Client 支付平台客户端
type Client struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Payment.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	breaker := circuitbreaker.NewCircuitBreaker("payment-provider", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.Payment.BaseURL, "/"),
		secretKey:  cfg.Payment.SecretKey,
		successURL: cfg.Payment.SuccessURL,
		cancelURL:  cfg.Payment.CancelURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// CreateCustomer 返回客户ID
func (c *Client) CreateCustomer(ctx context.Context, email string, libraryID uint) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("metadata[library_id]", strconv.FormatUint(uint64(libraryID), 10))

	var out struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/v1/customers", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	return c.call(ctx, http.MethodDelete, "/v1/customers/"+url.PathEscape(customerID), nil, nil)
}

// CreateCheckoutSession 订阅模式的结账会话
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer", params.CustomerID)
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("client_reference_id", strconv.FormatUint(uint64(params.LibraryID), 10))

	var session CheckoutSession
	if err := c.call(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) call(ctx context.Context, method, path string, form url.Values, out any) error {
	return c.breaker.Execute(func() error {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("payment request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			var errResp struct {
				Error struct {
					Message string `json:"message"`
					Type    string `json:"type"`
				} `json:"error"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&errResp)
			if errResp.Error.Message != "" {
				return fmt.Errorf("payment api error: %s", errResp.Error.Message)
			}
			return fmt.Errorf("payment api error: %s", resp.Status)
		}
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("payment decode: %w", err)
		}
		return nil
	})
}
