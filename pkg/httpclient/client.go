package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/cardhub/pkg/metrics"
)

// DefaultTimeout はリクエスト全体のデフォルトタイムアウト。
const DefaultTimeout = 10 * time.Second

// maxErrorBody はエラーメッセージに含める上流レスポンスボディの最大長。
const maxErrorBody = 512

// Client は上流APIへのHTTPクライアント。
// タイムアウト、固定ヘッダー、レート制限の設定を持つ。リトライは行わない。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先のベースURL。
	baseURL string
	// name はメトリクスに記録する上流名。
	name string
	// header は全リクエストに付与するヘッダー。
	header http.Header
	// limiter はリクエスト送信前に待機するレート制限。nilなら制限しない。
	limiter *rate.Limiter
}

// Option はClientの設定を変更する。
type Option func(*Client)

// WithTimeout はリクエスト全体のタイムアウトを設定する。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHeader は全リクエストに付与するヘッダーを追加する。
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithRateLimit はリクエスト送信のレート制限を設定する。
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithTransport は内部で使用するhttp.RoundTripperを差し替える。
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// New は新しいHTTPクライアントを生成する。
// baseURLには接続先のベースURL（例: "https://apitcg.com/api"）、
// nameにはメトリクスに記録する上流名を指定する。
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		name:    name,
		header:  make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL は接続先のベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError は上流が2xx以外のステータスを返した場合のエラー。
type StatusError struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Body はレスポンスボディの先頭部分。
	Body string
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// GetJSON は指定パスにGETリクエストを送信し、レスポンスボディをresultにデシリアライズする。
// rawQueryはエンコード済みのクエリ文字列。
func (c *Client) GetJSON(ctx context.Context, path, rawQuery string, result any) error {
	body, err := c.GetRaw(ctx, path, rawQuery)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	return nil
}

// GetRaw は指定パスにGETリクエストを送信し、レスポンスボディをそのまま返す。
// 2xx以外のレスポンスは*StatusErrorを返す。
func (c *Client) GetRaw(ctx context.Context, path, rawQuery string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, path, rawQuery)
	metrics.ObserveUpstream(c.name, err)
	return body, err
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("レート制限の待機に失敗: %w", err)
		}
	}

	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
