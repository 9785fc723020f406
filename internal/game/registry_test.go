package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/cardhub/internal/filter"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	r := Default()

	t.Run("外部APIのゲーム", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{"digimon", "pokemon", "dragon-ball-fusion"} {
			d, ok := r.Resolve(id)
			require.True(t, ok, id)
			assert.Equal(t, External, d.Backend, id)
			assert.True(t, r.IsKnown(id), id)
			assert.False(t, r.IsInternal(id), id)
			assert.False(t, d.Stored(), id)
		}
	})

	t.Run("Magicは専用アダプタで内部扱い", func(t *testing.T) {
		t.Parallel()

		d, ok := r.Resolve("magic")
		require.True(t, ok)
		assert.Equal(t, Magic, d.Backend)
		assert.True(t, r.IsInternal("magic"))
		assert.False(t, d.Stored())
	})

	t.Run("ドキュメントストアのゲームはコレクションと変換器を持つ", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{"sorcery", "one-piece", "riftbound", "fab", "yugioh", "star-wars", "gundam", "union-arena"} {
			d, ok := r.Resolve(id)
			require.True(t, ok, id)
			assert.Equal(t, Document, d.Backend, id)
			assert.Equal(t, id, d.Collection, id)
			assert.NotNil(t, d.Translator, id)
			assert.True(t, r.IsInternal(id), id)
			assert.True(t, d.Stored(), id)
		}
	})

	t.Run("未知の識別子と大文字小文字違いは見つからない", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{"", "hearthstone", "Sorcery", "YUGIOH"} {
			_, ok := r.Resolve(id)
			assert.False(t, ok, id)
			assert.False(t, r.IsKnown(id), id)
			assert.False(t, r.IsInternal(id), id)
		}
	})

	t.Run("識別子の一覧", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, r.IDs(), 12)
		assert.Equal(t, "digimon", r.IDs()[0])
	})
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	t.Run("重複した識別子はエラー", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(
			Descriptor{ID: "pokemon", Backend: External},
			Descriptor{ID: "pokemon", Backend: External},
		)
		assert.ErrorIs(t, err, ErrDuplicateGame)
	})

	t.Run("コレクションが無いドキュメントストアのゲームはエラー", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(Descriptor{ID: "fab", Backend: Document, Translator: filter.FleshAndBlood})
		assert.ErrorIs(t, err, ErrIncompleteGame)
	})

	t.Run("変換器が無いドキュメントストアのゲームはエラー", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(Descriptor{ID: "fab", Backend: Document, Collection: "fab"})
		assert.ErrorIs(t, err, ErrIncompleteGame)
	})

	t.Run("空の識別子はエラー", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(Descriptor{Backend: External})
		assert.ErrorIs(t, err, ErrEmptyGameID)
	})

	t.Run("未知のバックエンドはエラー", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(Descriptor{ID: "x", Backend: Backend(42)})
		assert.ErrorIs(t, err, ErrUnsupportedBackend)
	})
}
