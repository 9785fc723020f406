package mongodb

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nao1215/cardhub/internal/store"
)

// toBSON はフィルタをMongoDBのクエリに変換する。
// 条件が複数ある場合は$andで結合する。
func toBSON(f store.Filter) (bson.M, error) {
	if f.Empty() {
		return bson.M{}, nil
	}

	clauses := make(bson.A, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		expr, err := condition(c)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, bson.M{c.Field: expr})
	}
	if len(clauses) == 1 {
		return clauses[0].(bson.M), nil
	}
	return bson.M{"$and": clauses}, nil
}

// condition は1つの条件をフィールドに対する式に変換する。
func condition(c store.Condition) (any, error) {
	switch c.Op {
	case store.OpEq:
		switch v := c.Value.(type) {
		case string, float64:
			return v, nil
		}
	case store.OpFold:
		if v, ok := c.Value.(string); ok {
			return regex("^" + regexp.QuoteMeta(v) + "$"), nil
		}
	case store.OpContains:
		if v, ok := c.Value.(string); ok {
			return regex(regexp.QuoteMeta(v)), nil
		}
	case store.OpPrefix:
		if v, ok := c.Value.(string); ok {
			return regex("^" + regexp.QuoteMeta(v)), nil
		}
	case store.OpIn:
		if vs, ok := c.Value.([]string); ok {
			return bson.M{"$in": vs}, nil
		}
	case store.OpGTE:
		if v, ok := c.Value.(float64); ok {
			return bson.M{"$gte": v}, nil
		}
	case store.OpLTE:
		if v, ok := c.Value.(float64); ok {
			return bson.M{"$lte": v}, nil
		}
	}
	return nil, fmt.Errorf("未対応の条件です: field=%s, op=%s, value=%T", c.Field, c.Op, c.Value)
}

// regex は大文字小文字を区別しない正規表現条件を返す。
func regex(pattern string) bson.M {
	return bson.M{"$regex": pattern, "$options": "i"}
}
