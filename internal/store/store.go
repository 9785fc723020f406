// Package store はカードデータを保持するドキュメントストアの抽象を提供する。
//
// ドキュメントストアはゲームごとのコレクションにカードドキュメントを保持する。
// ゲートウェイは件数取得、ページ取得、ID/名前による取得、ランダム取得のみを行い、
// 書き込みはcardimportコマンドなどの運用ツールからのみ行う。
//
// 実装:
//   - sqlite: 組み込み用（modernc.org/sqlite、JSON1によるフィルタ評価）
//   - mongo: 本番用（MongoDB）
package store

import (
	"context"
	"errors"
	"math"
)

// Document はカードドキュメント。ゲートウェイは中身を解釈せずにそのまま返す。
type Document = map[string]any

// IDField はカードの識別子を保持するフィールド名。
const IDField = "id"

// NameField はカード名を保持するフィールド名。
const NameField = "name"

// MetaCollection はサービスメタデータを保持するコレクション名。
const MetaCollection = "meta"

// ErrInvalidDocument はドキュメントに識別子が無い場合に返す。
var ErrInvalidDocument = errors.New("ドキュメントに文字列のidフィールドがありません")

// Store はゲートウェイが利用するドキュメントストアの操作。
// 該当ドキュメントが存在しない場合、FindByID/FindByName/FindRandom/Metaは nil, nil を返す。
type Store interface {
	// Count はフィルタに一致するドキュメント数を返す。
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// Find はフィルタに一致するドキュメントのうち、page（1始まり）番目のlimit件を返す。
	Find(ctx context.Context, collection string, filter Filter, page, limit int) ([]Document, error)
	// FindByID はidフィールドが一致するドキュメントを返す。
	FindByID(ctx context.Context, collection, id string) (Document, error)
	// FindByName はnameフィールドが大文字小文字を区別せずに一致するドキュメントを返す。
	FindByName(ctx context.Context, collection, name string) (Document, error)
	// FindRandom はコレクションから任意の1件を返す。
	FindRandom(ctx context.Context, collection string) (Document, error)
	// Meta はサービスメタデータのドキュメントを返す。
	Meta(ctx context.Context) (Document, error)
	// Ping はストアへの疎通を確認する。
	Ping(ctx context.Context) error
	// Close は接続を閉じる。
	Close(ctx context.Context) error
}

// Skip はページ番号と件数から読み飛ばす件数を計算する。
// int64に収まらない場合はmath.MaxInt64に丸める。
func Skip(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}
