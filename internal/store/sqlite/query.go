package sqlite

import (
	"fmt"
	"strings"

	"github.com/nao1215/cardhub/internal/store"
)

// compile はフィルタをWHERE句の断片とバインド値に変換する。
// 各条件はjson_eachで評価するため、配列フィールドはいずれかの要素が一致すれば真になる。
// 条件が無い場合は空文字列を返す。
func compile(f store.Filter) (string, []any, error) {
	if f.Empty() {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(f.Conditions))
	var args []any
	for _, c := range f.Conditions {
		pred, predArgs, err := predicate(c)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(cards.doc, ?) AS j WHERE "+pred+")")
		args = append(args, "$."+c.Field)
		args = append(args, predArgs...)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// predicate はjson_eachの1要素に対する条件式を返す。
func predicate(c store.Condition) (string, []any, error) {
	switch c.Op {
	case store.OpEq:
		switch v := c.Value.(type) {
		case string:
			return "j.type = 'text' AND j.value = ?", []any{v}, nil
		case float64:
			return "j.type IN ('integer', 'real') AND j.value = ?", []any{v}, nil
		}
	case store.OpFold:
		if v, ok := c.Value.(string); ok {
			return "j.type = 'text' AND " + foldFunc + "(j.value) = " + foldFunc + "(?)", []any{v}, nil
		}
	case store.OpContains:
		if v, ok := c.Value.(string); ok {
			return "j.type = 'text' AND instr(" + foldFunc + "(j.value), " + foldFunc + "(?)) > 0", []any{v}, nil
		}
	case store.OpPrefix:
		if v, ok := c.Value.(string); ok {
			return "j.type = 'text' AND instr(" + foldFunc + "(j.value), " + foldFunc + "(?)) = 1", []any{v}, nil
		}
	case store.OpIn:
		if vs, ok := c.Value.([]string); ok {
			if len(vs) == 0 {
				return "0", nil, nil
			}
			args := make([]any, len(vs))
			for i, v := range vs {
				args[i] = v
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(vs)), ", ")
			return "j.type = 'text' AND j.value IN (" + placeholders + ")", args, nil
		}
	case store.OpGTE:
		if v, ok := c.Value.(float64); ok {
			return "j.type IN ('integer', 'real') AND j.value >= ?", []any{v}, nil
		}
	case store.OpLTE:
		if v, ok := c.Value.(float64); ok {
			return "j.type IN ('integer', 'real') AND j.value <= ?", []any{v}, nil
		}
	}
	return "", nil, fmt.Errorf("未対応の条件です: field=%s, op=%s, value=%T", c.Field, c.Op, c.Value)
}
