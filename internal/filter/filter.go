// Package filter はHTTPクエリパラメータをゲームごとのストア検索条件に変換する。
//
// 各ゲームは受け付けるパラメータと一致方法の一覧（Catalog）を持つ。
// 変換は純粋関数で、入力のurl.Valuesを変更しない。
// 一覧に無いパラメータ（page、limitを含む）は無視する。
package filter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nao1215/cardhub/internal/store"
)

// Translator はクエリパラメータを検索条件に変換する。
type Translator interface {
	// Translate はparamsから検索条件を生成する。
	// 数値として解釈できない値が指定された場合は*ParamErrorを返す。
	Translate(params url.Values) (store.Filter, error)
}

// Match はパラメータ値とフィールドの一致方法。
type Match int

const (
	// Exact は完全一致。
	Exact Match = iota
	// Fold は大文字小文字を区別しない一致。
	Fold
	// Contains は大文字小文字を区別しない部分一致。
	Contains
	// Prefix は大文字小文字を区別しない前方一致。
	Prefix
	// Number は数値の一致。
	Number
	// Min は数値の下限（含む）。
	Min
	// Max は数値の上限（含む）。
	Max
	// AnyOf はカンマ区切りの値のいずれかと一致。繰り返し指定されたキーは結合する。
	AnyOf
)

// Rule は1つのパラメータの変換規則。
type Rule struct {
	// Param はクエリパラメータ名。
	Param string
	// Field はドキュメントのフィールドパス。
	Field string
	// Match は一致方法。
	Match Match
}

// Catalog はゲームが受け付けるパラメータ規則の一覧。
type Catalog []Rule

var _ Translator = Catalog(nil)

// ParamError は数値パラメータが解釈できない場合のエラー。
type ParamError struct {
	// Param はパラメータ名。
	Param string
	// Value は指定された値。
	Value string
}

// Error はerrorインターフェースを実装する。
func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q must be a number, got %q", e.Param, e.Value)
}

// Translate は規則の順にパラメータを検索条件へ変換する。
// 値が空のパラメータは指定されなかったものとして扱う。
func (c Catalog) Translate(params url.Values) (store.Filter, error) {
	var conds []store.Condition
	for _, r := range c {
		if r.Match == AnyOf {
			if values := splitList(params[r.Param]); len(values) > 0 {
				conds = append(conds, store.Condition{Field: r.Field, Op: store.OpIn, Value: values})
			}
			continue
		}

		raw := first(params[r.Param])
		if raw == "" {
			continue
		}

		cond, err := r.condition(raw)
		if err != nil {
			return store.Filter{}, err
		}
		conds = append(conds, cond)
	}
	return store.Filter{Conditions: conds}, nil
}

// Params は受け付けるパラメータ名を規則の順に返す。
func (c Catalog) Params() []string {
	names := make([]string, 0, len(c))
	for _, r := range c {
		names = append(names, r.Param)
	}
	return names
}

func (r Rule) condition(raw string) (store.Condition, error) {
	switch r.Match {
	case Fold:
		return store.Condition{Field: r.Field, Op: store.OpFold, Value: raw}, nil
	case Contains:
		return store.Condition{Field: r.Field, Op: store.OpContains, Value: raw}, nil
	case Prefix:
		return store.Condition{Field: r.Field, Op: store.OpPrefix, Value: raw}, nil
	case Number, Min, Max:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return store.Condition{}, &ParamError{Param: r.Param, Value: raw}
		}
		op := store.OpEq
		switch r.Match {
		case Min:
			op = store.OpGTE
		case Max:
			op = store.OpLTE
		}
		return store.Condition{Field: r.Field, Op: op, Value: n}, nil
	default:
		return store.Condition{Field: r.Field, Op: store.OpEq, Value: raw}, nil
	}
}

// first は最初の空でない値を前後の空白を除いて返す。
func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// splitList はカンマ区切りの値を分割し、重複と空要素を除いて返す。
func splitList(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
