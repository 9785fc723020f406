package store

import "strings"

// Op はフィールドに対する比較方法。
type Op int

const (
	// OpEq は値の完全一致。
	OpEq Op = iota
	// OpFold は大文字小文字を区別しない一致。
	OpFold
	// OpContains は大文字小文字を区別しない部分一致。
	OpContains
	// OpPrefix は大文字小文字を区別しない前方一致。
	OpPrefix
	// OpIn は値の集合のいずれかと一致。
	OpIn
	// OpGTE は数値の下限（含む）。
	OpGTE
	// OpLTE は数値の上限（含む）。
	OpLTE
)

// String は比較方法の名前を返す。
func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpFold:
		return "fold"
	case OpContains:
		return "contains"
	case OpPrefix:
		return "prefix"
	case OpIn:
		return "in"
	case OpGTE:
		return "gte"
	case OpLTE:
		return "lte"
	default:
		return "unknown"
	}
}

// Condition はフィルタを構成する1つの条件。
// フィールドが配列の場合は、いずれかの要素が条件を満たせば一致とみなす。
type Condition struct {
	// Field はドット区切りのフィールドパス。
	Field string
	// Op は比較方法。
	Op Op
	// Value は比較値。OpInでは[]string、数値比較ではfloat64、それ以外はstring。
	Value any
}

// Filter は全条件のAND。条件が無い場合はすべてのドキュメントに一致する。
type Filter struct {
	// Conditions は条件の一覧。
	Conditions []Condition
}

// Empty は条件が無いかを返す。
func (f Filter) Empty() bool {
	return len(f.Conditions) == 0
}

// And は条件を追加したフィルタを返す。元のフィルタは変更しない。
func (f Filter) And(c ...Condition) Filter {
	conds := make([]Condition, 0, len(f.Conditions)+len(c))
	conds = append(conds, f.Conditions...)
	conds = append(conds, c...)
	return Filter{Conditions: conds}
}

// String はログ出力用の文字列表現を返す。
func (f Filter) String() string {
	if f.Empty() {
		return "{}"
	}
	parts := make([]string, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		parts = append(parts, c.Field+" "+c.Op.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
