package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/cardhub/internal/store"
)

// newTestStore はインメモリのストアを生成し、docsをcollectionに登録する。
func newTestStore(t *testing.T, collection string, docs ...store.Document) *Store {
	t.Helper()

	s, err := Open(context.Background(), MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if len(docs) > 0 {
		require.NoError(t, s.PutMany(context.Background(), collection, docs))
	}
	return s
}

// ids はドキュメントのid一覧を返す。
func ids(docs []store.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		id, _ := d["id"].(string)
		out = append(out, id)
	}
	return out
}

func fixtureCards() []store.Document {
	return []store.Document{
		{"id": "OP01-001", "name": "Roronoa Zoro", "color": []any{"Red"}, "cost": 3, "type": "Leader", "set": "Romance Dawn"},
		{"id": "OP01-002", "name": "Trafalgar Law", "color": []any{"Green", "Red"}, "cost": 5, "type": "Character", "set": "Romance Dawn"},
		{"id": "OP02-001", "name": "Edward.Newgate", "color": []any{"Red"}, "cost": 7, "type": "LEADER", "set": "Paramount War"},
		{"id": "ST01-001", "name": "Monkey D. Luffy", "color": []any{"Red"}, "cost": 2.5, "type": "Character", "set": "Starter 100%"},
	}
}

func TestFilterSemantics(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "one-piece", fixtureCards()...)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter store.Filter
		want   []string
	}{
		{
			name:   "条件が無い場合は全件に一致する",
			filter: store.Filter{},
			want:   []string{"OP01-001", "OP01-002", "OP02-001", "ST01-001"},
		},
		{
			name:   "完全一致は大文字小文字を区別する",
			filter: store.Filter{Conditions: []store.Condition{{Field: "type", Op: store.OpEq, Value: "Leader"}}},
			want:   []string{"OP01-001"},
		},
		{
			name:   "foldは大文字小文字を区別しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "type", Op: store.OpFold, Value: "leader"}}},
			want:   []string{"OP01-001", "OP02-001"},
		},
		{
			name:   "部分一致は大文字小文字を区別しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "name", Op: store.OpContains, Value: "LAW"}}},
			want:   []string{"OP01-002"},
		},
		{
			name:   "部分一致で%は通常の文字として扱われる",
			filter: store.Filter{Conditions: []store.Condition{{Field: "set", Op: store.OpContains, Value: "100%"}}},
			want:   []string{"ST01-001"},
		},
		{
			name:   "前方一致",
			filter: store.Filter{Conditions: []store.Condition{{Field: "id", Op: store.OpPrefix, Value: "op01"}}},
			want:   []string{"OP01-001", "OP01-002"},
		},
		{
			name:   "集合の要素一致は配列フィールドのいずれかの要素で判定する",
			filter: store.Filter{Conditions: []store.Condition{{Field: "color", Op: store.OpIn, Value: []string{"Green", "Blue"}}}},
			want:   []string{"OP01-002"},
		},
		{
			name:   "数値の一致は整数と小数の両方で判定できる",
			filter: store.Filter{Conditions: []store.Condition{{Field: "cost", Op: store.OpEq, Value: 2.5}}},
			want:   []string{"ST01-001"},
		},
		{
			name: "数値範囲",
			filter: store.Filter{Conditions: []store.Condition{
				{Field: "cost", Op: store.OpGTE, Value: 3.0},
				{Field: "cost", Op: store.OpLTE, Value: 5.0},
			}},
			want: []string{"OP01-001", "OP01-002"},
		},
		{
			name: "複数条件はANDで結合される",
			filter: store.Filter{Conditions: []store.Condition{
				{Field: "set", Op: store.OpContains, Value: "romance"},
				{Field: "type", Op: store.OpFold, Value: "character"},
			}},
			want: []string{"OP01-002"},
		},
		{
			name:   "存在しないフィールドには一致しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "power", Op: store.OpEq, Value: 5000.0}}},
			want:   []string{},
		},
		{
			name:   "文字列の値は数値比較に一致しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "name", Op: store.OpGTE, Value: 0.0}}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			docs, err := s.Find(ctx, "one-piece", tt.filter, 1, 25)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(docs))

			n, err := s.Count(ctx, "one-piece", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), n)
		})
	}
}

func TestUnicodeFolding(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "lorcana",
		store.Document{"id": "L1", "name": "Éowyn, Shieldmaiden", "type": "ÉPÉE"},
		store.Document{"id": "L2", "name": "Ärger im Paradies", "type": "Action"},
		store.Document{"id": "L3", "name": "Straße der Diebe", "type": "Location"},
	)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter store.Filter
		want   []string
	}{
		{
			name:   "foldはASCII以外の大文字小文字も区別しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "type", Op: store.OpFold, Value: "épée"}}},
			want:   []string{"L1"},
		},
		{
			name:   "部分一致はASCII以外の大文字小文字も区別しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "name", Op: store.OpContains, Value: "ÉOWYN"}}},
			want:   []string{"L1"},
		},
		{
			name:   "前方一致はASCII以外の大文字小文字も区別しない",
			filter: store.Filter{Conditions: []store.Condition{{Field: "name", Op: store.OpPrefix, Value: "ärger"}}},
			want:   []string{"L2"},
		},
		{
			name:   "部分一致で_は通常の文字として扱われる",
			filter: store.Filter{Conditions: []store.Condition{{Field: "name", Op: store.OpContains, Value: "e_"}}},
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			docs, err := s.Find(ctx, "lorcana", tt.filter, 1, 25)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(docs))
		})
	}

	t.Run("名前の検索はASCII以外の大文字小文字も区別しない", func(t *testing.T) {
		t.Parallel()

		doc, err := s.FindByName(ctx, "lorcana", "éowyn, shieldmaiden")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "L1", doc["id"])
	})
}

func TestFindPaging(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "one-piece", fixtureCards()...)
	ctx := context.Background()

	page1, err := s.Find(ctx, "one-piece", store.Filter{}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"OP01-001", "OP01-002", "OP02-001"}, ids(page1))

	page2, err := s.Find(ctx, "one-piece", store.Filter{}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"ST01-001"}, ids(page2))

	page3, err := s.Find(ctx, "one-piece", store.Filter{}, 3, 3)
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestCollectionsAreIsolated(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "one-piece", fixtureCards()...)
	ctx := context.Background()

	n, err := s.Count(ctx, "gundam", store.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	doc, err := s.FindByID(ctx, "gundam", "OP01-001")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestFindByIDAndName(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "one-piece", fixtureCards()...)
	ctx := context.Background()

	t.Run("idで取得できること", func(t *testing.T) {
		t.Parallel()

		doc, err := s.FindByID(ctx, "one-piece", "OP01-002")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "Trafalgar Law", doc["name"])
		assert.Equal(t, json.Number("5"), doc["cost"])
	})

	t.Run("名前は大文字小文字を区別せずに取得できること", func(t *testing.T) {
		t.Parallel()

		doc, err := s.FindByName(ctx, "one-piece", "trafalgar law")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "OP01-002", doc["id"])
	})

	t.Run("存在しない場合はnilを返すこと", func(t *testing.T) {
		t.Parallel()

		doc, err := s.FindByID(ctx, "one-piece", "missing")
		require.NoError(t, err)
		assert.Nil(t, doc)

		doc, err = s.FindByName(ctx, "one-piece", "missing")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})
}

func TestFindRandom(t *testing.T) {
	t.Parallel()

	t.Run("1件だけのコレクションでは常にその1件を返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t, "fab", store.Document{"id": "only", "name": "Only Card"})
		for range 5 {
			doc, err := s.FindRandom(context.Background(), "fab")
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.Equal(t, "only", doc["id"])
		}
	})

	t.Run("空のコレクションではnilを返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t, "fab")
		doc, err := s.FindRandom(context.Background(), "fab")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})
}

func TestPutMany(t *testing.T) {
	t.Parallel()

	t.Run("同じidは置き換えられること", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t, "gundam", store.Document{"id": "GD01-001", "name": "Old"})
		require.NoError(t, s.Put(context.Background(), "gundam", store.Document{"id": "GD01-001", "name": "New"}))

		n, err := s.Count(context.Background(), "gundam", store.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		doc, err := s.FindByName(context.Background(), "gundam", "new")
		require.NoError(t, err)
		require.NotNil(t, doc)
	})

	t.Run("idが無いドキュメントがあれば何も登録しないこと", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t, "gundam")
		err := s.PutMany(context.Background(), "gundam", []store.Document{
			{"id": "GD01-001", "name": "ok"},
			{"name": "no id"},
		})
		require.ErrorIs(t, err, store.ErrInvalidDocument)

		n, err := s.Count(context.Background(), "gundam", store.Filter{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestMeta(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "meta")
	ctx := context.Background()

	doc, err := s.Meta(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, s.SetMeta(ctx, store.Document{"name": "Cards API", "version": "1.0.0"}))
	doc, err = s.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cards API", doc["name"])
}

func TestCompileRejectsUnsupportedValue(t *testing.T) {
	t.Parallel()

	_, _, err := compile(store.Filter{Conditions: []store.Condition{{Field: "cost", Op: store.OpGTE, Value: "three"}}})
	assert.Error(t, err)
}
