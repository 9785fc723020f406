// Package pagination はページ単位のレスポンス封筒（envelope）を組み立てる。
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nao1215/cardhub/pkg/apierror"
)

// デフォルトのページ番号と件数。
const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// Page はページ単位のレスポンス。
type Page[T any] struct {
	// Page は1始まりのページ番号。
	Page int `json:"page"`
	// Limit は1ページあたりの件数。
	Limit int `json:"limit"`
	// Total は条件に一致する全件数。
	Total int64 `json:"total"`
	// TotalPages は総ページ数。ceil(Total / Limit)。
	TotalPages int64 `json:"totalPages"`
	// Data はこのページの要素。
	Data []T `json:"data"`
}

// Assemble はページの要素と全件数からPageを組み立てる。
// pageとlimitは検証済みであること。limitが0以下の場合TotalPagesは0になる。
func Assemble[T any](items []T, page, limit int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		Data:       items,
	}
}

// TotalPages はceil(total / limit)を返す。
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// Params はクエリパラメータから取り出したページ指定。
type Params struct {
	// Page は1始まりのページ番号。
	Page int
	// Limit は1ページあたりの件数。
	Limit int
}

// Parse はpageとlimitを取り出す。未指定の場合はデフォルト値を使う。
// 整数でない、または1未満の値はBadRequestとして扱う。
// 読み飛ばす件数 (page-1)*limit がintに収まらない組み合わせもBadRequestになる。
func Parse(q url.Values) (Params, error) {
	page, err := positive(q, "page", DefaultPage)
	if err != nil {
		return Params{}, err
	}
	limit, err := positive(q, "limit", DefaultLimit)
	if err != nil {
		return Params{}, err
	}
	if !InRange(page, limit) {
		return Params{}, apierror.New(apierror.BadRequest, "page is too large for the given limit")
	}
	return Params{Page: page, Limit: limit}, nil
}

// InRange はページの末尾位置 page*limit がオーバーフローせずに計算できるかを返す。
func InRange(page, limit int) bool {
	if page < 1 || limit < 1 {
		return false
	}
	return page <= math.MaxInt/limit
}

func positive(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apierror.New(apierror.BadRequest, key+" must be a positive integer")
	}
	return n, nil
}
