// Package magic はMagic: The Gatheringのカード検索アダプタを提供する。
//
// カードデータはScryfall APIから取得する。Scryfallの検索結果は1ページ175件固定のため、
// 呼び出し側のpage/limitを覆うScryfallのページを取得して切り出し、
// 他のゲームと同じページ封筒に詰め替えて返す。
package magic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/cardhub/internal/pagination"
	"github.com/nao1215/cardhub/pkg/apierror"
	"github.com/nao1215/cardhub/pkg/httpclient"
)

// Scryfallの設定値。
const (
	// DefaultBaseURL はScryfall APIのベースURL。
	DefaultBaseURL = "https://api.scryfall.com"
	// PageSize はScryfallの検索結果1ページあたりの件数。
	PageSize = 175
	// MaxLimit は1回の検索で返す最大件数。これを超えるlimitは切り詰める。
	MaxLimit = PageSize
	// DefaultQuery は検索条件が無い場合のScryfallクエリ。
	DefaultQuery = "game:paper"
	// userAgent はScryfallが要求するUser-Agent。
	userAgent = "cardhub/1.0"
	// upstreamName はメトリクスに記録する上流名。
	upstreamName = "scryfall"
)

// Query はMagicの検索条件。
type Query struct {
	// Page は1始まりのページ番号。
	Page int
	// Limit は1ページあたりの件数。
	Limit int
	// Name はカード名の部分一致条件。
	Name string
	// Set はセットコード。
	Set string
	// Colors は色の指定（例: "wu"）。
	Colors string
	// Rarity はレアリティ。
	Rarity string
	// Layout はカードのレイアウト（例: "transform"）。
	Layout string
	// CMC は点数で見たマナ・コスト。
	CMC string
	// Language は言語コード。
	Language string
	// ID はScryfallのカードID。指定時は他の条件を無視する。
	ID string
}

// ParseQuery はクエリパラメータとページ指定から検索条件を組み立てる。
func ParseQuery(params url.Values, p pagination.Params) Query {
	get := func(key string) string {
		return strings.TrimSpace(params.Get(key))
	}
	return Query{
		Page:     p.Page,
		Limit:    p.Limit,
		Name:     get("name"),
		Set:      get("set"),
		Colors:   get("colors"),
		Rarity:   get("rarity"),
		Layout:   get("layout"),
		CMC:      get("cmc"),
		Language: get("language"),
		ID:       get("id"),
	}
}

// Search はScryfallの検索構文に変換したクエリ文字列を返す。
func (q Query) Search() string {
	var terms []string
	if q.Name != "" {
		terms = append(terms, strconv.Quote(q.Name))
	}
	add := func(prefix, value string) {
		if value != "" {
			terms = append(terms, prefix+value)
		}
	}
	add("set:", q.Set)
	add("c:", q.Colors)
	add("r:", q.Rarity)
	add("is:", q.Layout)
	add("cmc=", q.CMC)
	add("lang:", q.Language)
	if len(terms) == 0 {
		return DefaultQuery
	}
	return strings.Join(terms, " ")
}

// list はScryfallのリストオブジェクト。
type list struct {
	// TotalCards は条件に一致する全件数。
	TotalCards int64 `json:"total_cards"`
	// HasMore は次のページがあるか。
	HasMore bool `json:"has_more"`
	// Data はこのページのカード。
	Data []json.RawMessage `json:"data"`
}

// Client はScryfallの検索クライアント。
type Client struct {
	http *httpclient.Client
}

// New はクライアントを生成する。リクエストは毎秒10件に制限する。
func New(baseURL string, timeout time.Duration, opts ...httpclient.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}
	opts = append([]httpclient.Option{
		httpclient.WithTimeout(timeout),
		httpclient.WithHeader("User-Agent", userAgent),
		httpclient.WithRateLimit(rate.NewLimiter(rate.Every(100*time.Millisecond), 1)),
	}, opts...)
	return &Client{http: httpclient.New(upstreamName, baseURL, opts...)}
}

// Search は条件に一致するカードを検索してページ封筒で返す。
// 一致するカードが無い場合は空のページを返す。上流の失敗はBackendUnavailableに分類する。
func (c *Client) Search(ctx context.Context, q Query) (pagination.Page[json.RawMessage], error) {
	if q.Page < 1 {
		q.Page = pagination.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = pagination.DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if q.ID != "" {
		return c.byID(ctx, q)
	}

	if !pagination.InRange(q.Page, q.Limit) {
		return c.beyondEnd(ctx, q)
	}

	offset := (q.Page - 1) * q.Limit
	first := offset/PageSize + 1
	last := (offset+q.Limit-1)/PageSize + 1

	var (
		cards []json.RawMessage
		total int64
	)
	for sp := first; sp <= last; sp++ {
		l, found, err := c.searchPage(ctx, q.Search(), sp)
		if err != nil {
			return pagination.Page[json.RawMessage]{}, err
		}
		if !found {
			break
		}
		total = l.TotalCards
		cards = append(cards, l.Data...)
		if !l.HasMore {
			break
		}
	}

	start := offset - (first-1)*PageSize
	if start > len(cards) {
		start = len(cards)
	}
	end := min(start+q.Limit, len(cards))
	return pagination.Assemble(cards[start:end], q.Page, q.Limit, total), nil
}

// beyondEnd はオフセットがintに収まらないほど後ろのページを空のページとして返す。
// totalは先頭ページから取得する。
func (c *Client) beyondEnd(ctx context.Context, q Query) (pagination.Page[json.RawMessage], error) {
	l, found, err := c.searchPage(ctx, q.Search(), 1)
	if err != nil {
		return pagination.Page[json.RawMessage]{}, err
	}
	var total int64
	if found {
		total = l.TotalCards
	}
	return pagination.Assemble([]json.RawMessage{}, q.Page, q.Limit, total), nil
}

func (c *Client) byID(ctx context.Context, q Query) (pagination.Page[json.RawMessage], error) {
	var card json.RawMessage
	err := c.http.GetJSON(ctx, "/cards/"+url.PathEscape(q.ID), "", &card)
	if isMiss(err) {
		return pagination.Assemble([]json.RawMessage{}, q.Page, q.Limit, 0), nil
	}
	if err != nil {
		return pagination.Page[json.RawMessage]{}, apierror.Backend(fmt.Errorf("Scryfall request failed: %w", err))
	}
	return pagination.Assemble([]json.RawMessage{card}, q.Page, q.Limit, 1), nil
}

// searchPage はScryfallの検索結果の1ページを取得する。一致なしの場合foundはfalse。
func (c *Client) searchPage(ctx context.Context, search string, page int) (list, bool, error) {
	params := url.Values{}
	params.Set("q", search)
	params.Set("page", strconv.Itoa(page))

	var l list
	err := c.http.GetJSON(ctx, "/cards/search", params.Encode(), &l)
	if isMiss(err) {
		return list{}, false, nil
	}
	if err != nil {
		return list{}, false, apierror.Backend(fmt.Errorf("Scryfall request failed: %w", err))
	}
	return l, true, nil
}

// isMiss は一致なしを表す上流のレスポンスかを返す。
// Scryfallは一致なしに404、範囲外のページに422を返す。
func isMiss(err error) bool {
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusUnprocessableEntity
}
