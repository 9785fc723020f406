// Package mongodb はMongoDBをバックエンドとするドキュメントストアを提供する。
//
// ゲームごとのコレクションにカードドキュメントが格納されている前提で、
// フィルタを$regex/$in/$gte/$lteのクエリに変換して検索する。
// ドキュメントの_idはレスポンスに含めない。
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/nao1215/cardhub/internal/store"
)

// withoutID は_idを除外するプロジェクション。
var withoutID = bson.D{{Key: "_id", Value: 0}}

// Store はMongoDBをバックエンドとするドキュメントストア。
type Store struct {
	// client はMongoDBクライアント。
	client *mongo.Client
	// db はカードデータを保持するデータベース。
	db *mongo.Database
	// logger は構造化ロガー。
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open はMongoDBに接続し、疎通を確認する。
func Open(ctx context.Context, uri, database string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("MongoDB接続に失敗: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDBへの疎通確認に失敗: %w", err)
	}

	return New(client, database, logger), nil
}

// New は接続済みのクライアントからストアを生成する。
func New(client *mongo.Client, database string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, db: client.Database(database), logger: logger}
}

// Count はフィルタに一致するドキュメント数を返す。
func (s *Store) Count(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	q, err := toBSON(filter)
	if err != nil {
		return 0, err
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("件数の取得に失敗: collection=%s: %w", collection, err)
	}
	return n, nil
}

// Find はフィルタに一致するドキュメントをページ単位で返す。
func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, page, limit int) ([]store.Document, error) {
	q, err := toBSON(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(store.Skip(page, limit)).
		SetLimit(int64(limit)).
		SetProjection(withoutID)
	cur, err := s.db.Collection(collection).Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの検索に失敗: collection=%s: %w", collection, err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("ドキュメントの読み取りに失敗: collection=%s: %w", collection, err)
	}

	docs := make([]store.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, store.Document(m))
	}
	return docs, nil
}

// FindByID はidが一致するドキュメントを返す。
func (s *Store) FindByID(ctx context.Context, collection, id string) (store.Document, error) {
	return s.findOne(ctx, collection, bson.M{store.IDField: id})
}

// FindByName は名前が大文字小文字を区別せずに一致するドキュメントを返す。
func (s *Store) FindByName(ctx context.Context, collection, name string) (store.Document, error) {
	return s.findOne(ctx, collection, bson.M{
		store.NameField: bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"},
	})
}

// FindRandom は$sampleでコレクションから1件を返す。
func (s *Store) FindRandom(ctx context.Context, collection string) (store.Document, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
		{{Key: "$project", Value: withoutID}},
	}
	cur, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ランダム取得に失敗: collection=%s: %w", collection, err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("ランダム取得結果の読み取りに失敗: collection=%s: %w", collection, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return store.Document(raw[0]), nil
}

// Meta はmetaコレクションの最初のドキュメントを返す。
func (s *Store) Meta(ctx context.Context) (store.Document, error) {
	return s.findOne(ctx, store.MetaCollection, bson.M{})
}

// Ping はMongoDBへの疎通を確認する。
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close はMongoDBとの接続を切断する。
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// findOne は1件のドキュメントを取得する。存在しなければ nil, nil を返す。
func (s *Store) findOne(ctx context.Context, collection string, q bson.M) (store.Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).
		FindOne(ctx, q, options.FindOne().SetProjection(withoutID)).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの取得に失敗: collection=%s: %w", collection, err)
	}
	return store.Document(doc), nil
}
