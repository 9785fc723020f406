// Package apitcg は外部カードAPI（apitcg）へのプロキシクライアントを提供する。
//
// 外部APIのゲームは検索・フィルタ・ページングをすべて上流に委ねる。
// クライアントは受け取ったクエリ文字列をそのまま転送し、
// 上流のJSONボディを加工せずに返す。
package apitcg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/nao1215/cardhub/pkg/apierror"
	"github.com/nao1215/cardhub/pkg/httpclient"
)

// 上流の設定値。
const (
	// DefaultBaseURL は外部カードAPIのベースURL。
	DefaultBaseURL = "https://apitcg.com/api"
	// HeaderAPIKey は上流の認証情報を載せるヘッダー。
	HeaderAPIKey = "x-api-key"
	// upstreamName はメトリクスに記録する上流名。
	upstreamName = "apitcg"
)

// ErrMissingAPIKey は上流の認証情報が設定されていない場合のエラー。
var ErrMissingAPIKey = errors.New("APITCG_API_KEY is not configured")

// Client は外部カードAPIのプロキシクライアント。
type Client struct {
	// http は上流との通信に使うクライアント。apiKeyが空ならnil。
	http *httpclient.Client
}

// New はクライアントを生成する。apiKeyが空の場合、Fetchは毎回502相当のエラーを返す。
func New(baseURL, apiKey string, timeout time.Duration, opts ...httpclient.Option) *Client {
	if apiKey == "" {
		return &Client{}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}
	opts = append([]httpclient.Option{
		httpclient.WithTimeout(timeout),
		httpclient.WithHeader(HeaderAPIKey, apiKey),
	}, opts...)
	return &Client{http: httpclient.New(upstreamName, baseURL, opts...)}
}

// Configured は上流の認証情報が設定されているかを返す。
func (c *Client) Configured() bool {
	return c.http != nil
}

// Fetch は {base}/{game}/cards?{rawQuery} を取得し、上流のJSONボディをそのまま返す。
// 失敗はすべてBackendUnavailableに分類する。
func (c *Client) Fetch(ctx context.Context, game, rawQuery string) (json.RawMessage, error) {
	if c.http == nil {
		return nil, apierror.Backend(ErrMissingAPIKey)
	}

	body, err := c.http.GetRaw(ctx, "/"+url.PathEscape(game)+"/cards", rawQuery)
	if err != nil {
		return nil, apierror.Backend(err)
	}
	if !json.Valid(body) {
		return nil, apierror.Backend(fmt.Errorf("upstream returned invalid JSON for %s", game))
	}
	return json.RawMessage(body), nil
}
