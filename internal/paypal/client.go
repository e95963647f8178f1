// Package paypal реализует клиент платёжного шлюза PayPal Orders v2.
// Клиент покрывает ровно две операции процесса регистрации: создание ордера
// и списание средств по одобренному ордеру.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	sandboxAPIURL = "https://api-m.sandbox.paypal.com"
	liveAPIURL    = "https://api-m.paypal.com"
)

// ErrUnavailable возвращается, когда клиент не может быть сконструирован:
// не заданы учётные данные шлюза.
var ErrUnavailable = errors.New("paypal client is not configured")

// ErrRequestFailed возвращается при ошибке удалённого вызова либо когда шлюз
// прислал ответ без обязательных данных (например, без approve-ссылки).
var ErrRequestFailed = errors.New("paypal request failed")

// Client выполняет запросы к API PayPal от имени приложения.
type Client struct {
	clientID   string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент PayPal. Режим sandbox выбирает тестовый
// контур API, любой другой — боевой. Пустые учётные данные не мешают
// конструированию: вызовы такого клиента вернут ErrUnavailable.
func NewClient(clientID, secretKey, mode string) *Client {
	apiURL := liveAPIURL
	if mode == "sandbox" {
		apiURL = sandboxAPIURL
	}
	return &Client{
		clientID:   clientID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) configured() bool {
	return c.clientID != "" && c.secretKey != ""
}

// accessToken получает OAuth2-токен по client credentials.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	const op = "paypal.accessToken"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrRequestFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w: unexpected status %s", op, ErrRequestFailed, resp.Status)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrRequestFailed, err)
	}
	return tok.AccessToken, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: unexpected status %s: %s", ErrRequestFailed, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return nil
}

// CreateOrder открывает ордер на списание и возвращает его вместе с
// approve-ссылкой. Ответ без approve-ссылки считается ошибкой шлюза.
func (c *Client) CreateOrder(ctx context.Context, reqParams CreateOrderRequest) (*Order, error) {
	const op = "paypal.CreateOrder"
	if !c.configured() {
		return nil, ErrUnavailable
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v2/checkout/orders", token, reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var order Order
	if err := c.do(req, &order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.ApproveLink() == "" {
		return nil, fmt.Errorf("%s: %w: no approve link in response", op, ErrRequestFailed)
	}
	return &order, nil
}

// CaptureOrder списывает средства по одобренному ордеру. Статус, отличный от
// COMPLETED, возвращается как обычный результат, а не как ошибка.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	const op = "paypal.CaptureOrder"
	if !c.configured() {
		return nil, ErrUnavailable
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost,
		"/v2/checkout/orders/"+orderID+"/capture", token, struct{}{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var capture CaptureResult
	if err := c.do(req, &capture); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &capture, nil
}
