package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/pkg/ratelimit"

	"github.com/bytedance/sonic"
)

// Config — параметры HTTP-клиента биржи.
type Config struct {
	BaseURL    string
	APISecret  string
	Timeout    time.Duration
	PageLimit  int
	MaxPages   int
	CatalogTTL time.Duration

	RetryMaxAttempts int
	RetryBackoff     time.Duration
}

type Client struct {
	http      *http.Client
	baseURL   string
	apiSecret string
	budget    *ratelimit.Budget

	retryMaxAttempts int
	retryBackoff     time.Duration

	// справочник инструментов для авто-округления количеств и цен
	catalog *Catalog
}

func NewClient(conf Config, budget *ratelimit.Budget) *Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := conf.RetryMaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := conf.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Client{
		http:             &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(conf.BaseURL, "/"),
		apiSecret:        conf.APISecret,
		budget:           budget,
		retryMaxAttempts: attempts,
		retryBackoff:     backoff,
	}
}

// SetCatalog подключает справочник после сборки обоих (каталог сам ходит
// в клиент за страницами).
func (c *Client) SetCatalog(cat *Catalog) { c.catalog = cat }

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do гоняет запрос через общий rate-бюджет и ретраи; повторяются только
// rate_limited отказы.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.withRetry(ctx, func() error {
		var err error
		out, err = c.doOnce(ctx, method, path, query, body)
		return err
	})
	return out, err
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if err := c.budget.Wait(ctx); err != nil {
		return nil, err
	}

	requestPath := path
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	req.Header.Set("X-Secret-Key", c.apiSecret)
	req.Header.Set("X-Timestamp", ts)
	req.Header.Set("X-Signature", c.sign(ts, method, requestPath, string(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return parseResponse(resp.StatusCode, rb)
}

func (c *Client) sign(ts, method, requestPath, body string) string {
	msg := ts + strings.ToUpper(method) + requestPath + body
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// parseResponse вынимает data или строит *apierr.UpstreamError с сырым
// сообщением апстрима (классификация происходит выше).
func parseResponse(status int, body []byte) (json.RawMessage, error) {
	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Error   *struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	// конверт {success, data, error} разбирается только из объекта; голый
	// массив или не-JSON от балансера конвертом не являются
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &envelope)
	}

	if status/100 != 2 || (envelope.Success != nil && !*envelope.Success) {
		ue := &apierr.UpstreamError{Status: status}
		switch {
		case envelope.Error != nil:
			ue.Code = envelope.Error.Code
			ue.Message = envelope.Error.Message
			ue.RequestID = envelope.Error.RequestID
		case envelope.Message != "":
			ue.Message = envelope.Message
		default:
			ue.Message = strings.TrimSpace(string(body))
		}
		return nil, ue
	}

	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return envelope.Data, nil
	}
	return json.RawMessage(trimmed), nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return m, nil
}

// decodeList принимает и голый массив, и {"items": […]} / {"data": […]}.
func decodeList(raw json.RawMessage) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Items []map[string]any `json:"items"`
		Data  []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if wrapped.Items != nil {
		return wrapped.Items, nil
	}
	return wrapped.Data, nil
}
