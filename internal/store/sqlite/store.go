// Package sqlite はSQLiteを使った組み込みドキュメントストアを提供する。
//
// カードドキュメントはJSON文字列としてcardsテーブルに保存し、
// フィルタはSQLiteのJSON1関数（json_each）で評価する。
// ローカル開発、テスト、小規模なデプロイで使用する。
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nao1215/cardhub/internal/store"
	"github.com/nao1215/cardhub/pkg/migration"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryPath はインメモリデータベースを指定するパス。
const MemoryPath = ":memory:"

// metaKey はサービスメタデータの行キー。
const metaKey = "service"

// Store はSQLiteをバックエンドとするドキュメントストア。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
	// logger は構造化ロガー。
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open はSQLiteデータベースを開き、スキーマを適用する。
// pathに":memory:"を指定するとインメモリデータベースになる。
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if path == MemoryPath {
		// インメモリDBは接続ごとに別のデータベースになるため1接続に固定する
		db.SetMaxOpenConns(1)
	}

	if err := migration.Run(ctx, db, migrations, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// dsn はファイルパスにWALとビジータイムアウトのプラグマを付与する。
func dsn(path string) string {
	if path == MemoryPath || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Count はフィルタに一致するドキュメント数を返す。
func (s *Store) Count(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	where, args, err := whereClause(collection, filter)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("件数の取得に失敗: collection=%s: %w", collection, err)
	}
	return n, nil
}

// Find はフィルタに一致するドキュメントを登録順にページ単位で返す。
func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, page, limit int) ([]store.Document, error) {
	where, args, err := whereClause(collection, filter)
	if err != nil {
		return nil, err
	}
	args = append(args, limit, store.Skip(page, limit))

	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM cards WHERE "+where+" ORDER BY seq LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの検索に失敗: collection=%s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]store.Document, 0, min(limit, 100))
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("ドキュメントの読み取りに失敗: %w", err)
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ドキュメントの検索に失敗: collection=%s: %w", collection, err)
	}
	return docs, nil
}

// FindByID はidが一致するドキュメントを返す。
func (s *Store) FindByID(ctx context.Context, collection, id string) (store.Document, error) {
	return s.queryOne(ctx,
		"SELECT doc FROM cards WHERE collection = ? AND card_id = ?",
		collection, id)
}

// FindByName は名前が大文字小文字を区別せずに一致する最初のドキュメントを返す。
func (s *Store) FindByName(ctx context.Context, collection, name string) (store.Document, error) {
	return s.queryOne(ctx,
		"SELECT doc FROM cards WHERE collection = ? AND "+foldFunc+"(name) = "+foldFunc+"(?) ORDER BY seq LIMIT 1",
		collection, name)
}

// FindRandom はコレクションから無作為に1件を返す。
func (s *Store) FindRandom(ctx context.Context, collection string) (store.Document, error) {
	return s.queryOne(ctx,
		"SELECT doc FROM cards WHERE collection = ? ORDER BY random() LIMIT 1",
		collection)
}

// Meta はサービスメタデータを返す。
func (s *Store) Meta(ctx context.Context) (store.Document, error) {
	return s.queryOne(ctx, "SELECT doc FROM meta WHERE key = ?", metaKey)
}

// Ping はデータベースへの疎通を確認する。
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はデータベース接続を閉じる。
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

// Put はドキュメントを登録する。同じidのドキュメントがあれば置き換える。
func (s *Store) Put(ctx context.Context, collection string, doc store.Document) error {
	return s.PutMany(ctx, collection, []store.Document{doc})
}

// PutMany は複数のドキュメントを1トランザクションで登録する。
// 1件でも不正なドキュメントがあれば何も登録しない。
func (s *Store) PutMany(ctx context.Context, collection string, docs []store.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (collection, card_id, name, doc) VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, card_id) DO UPDATE SET name = excluded.name, doc = excluded.doc
	`)
	if err != nil {
		return fmt.Errorf("ステートメントの準備に失敗: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, doc := range docs {
		id, ok := doc[store.IDField].(string)
		if !ok || id == "" {
			return fmt.Errorf("%d件目: %w", i+1, store.ErrInvalidDocument)
		}
		name, _ := doc[store.NameField].(string)

		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("ドキュメントのシリアライズに失敗: id=%s: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, collection, id, name, string(raw)); err != nil {
			return fmt.Errorf("ドキュメントの登録に失敗: id=%s: %w", id, err)
		}
	}
	return tx.Commit()
}

// SetMeta はサービスメタデータを保存する。
func (s *Store) SetMeta(ctx context.Context, doc store.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("メタデータのシリアライズに失敗: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, doc) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET doc = excluded.doc, updated_at = datetime('now')
	`, metaKey, string(raw)); err != nil {
		return fmt.Errorf("メタデータの保存に失敗: %w", err)
	}
	return nil
}

// queryOne は1件のドキュメントを取得する。存在しなければ nil, nil を返す。
func (s *Store) queryOne(ctx context.Context, query string, args ...any) (store.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの取得に失敗: %w", err)
	}
	return decode(raw)
}

// whereClause はコレクション条件とフィルタを結合したWHERE句を返す。
func whereClause(collection string, filter store.Filter) (string, []any, error) {
	cond, args, err := compile(filter)
	if err != nil {
		return "", nil, err
	}
	where := "collection = ?"
	all := append([]any{collection}, args...)
	if cond != "" {
		where += " AND " + cond
	}
	return where, all, nil
}

// decode はJSON文字列をドキュメントに変換する。数値は元の表現を保持する。
func decode(raw string) (store.Document, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc store.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("ドキュメントのデシリアライズに失敗: %w", err)
	}
	return doc, nil
}
