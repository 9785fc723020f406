package sqlite

import (
	"database/sql/driver"
	"strings"

	sqlitedriver "modernc.org/sqlite"
)

// foldFunc は大文字小文字を区別しない比較に使うSQL関数の名前。
// SQLite組み込みのlower()とLIKEはASCIIしか変換しないため、Unicodeを扱える関数を登録する。
const foldFunc = "unicode_lower"

func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction(foldFunc, 1, fold)
}

// fold は文字列を小文字に変換する。文字列以外の値はそのまま返す。
func fold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
