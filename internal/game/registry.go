// Package game はゲーム識別子からバックエンドへの対応表を提供する。
//
// 対応表は起動時に一度だけ構築され、以降は読み取り専用で共有される。
// バックエンドは次の3種類:
//   - External: 外部カードAPI（apitcg）へプロキシする
//   - Magic: 専用アダプタ（Scryfall）で検索する
//   - Document: ドキュメントストアのコレクションをフィルタ変換付きで検索する
package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nao1215/cardhub/internal/filter"
)

// Backend はゲームのデータ取得先。
type Backend int

const (
	// External は外部カードAPIへのプロキシ。
	External Backend = iota
	// Magic はMagic: The Gathering専用アダプタ。
	Magic
	// Document はドキュメントストア。
	Document
)

// String はバックエンド名を返す。
func (b Backend) String() string {
	switch b {
	case External:
		return "external"
	case Magic:
		return "magic"
	case Document:
		return "document"
	default:
		return "unknown"
	}
}

// Descriptor は1つのゲームの定義。
type Descriptor struct {
	// ID はURLで使うゲーム識別子。
	ID string
	// Backend はデータ取得先。
	Backend Backend
	// Collection はドキュメントストアのコレクション名。Documentのみ。
	Collection string
	// Translator はクエリパラメータの変換器。Documentのみ。
	Translator filter.Translator
}

// Stored はドキュメントストアから提供されるゲームかを返す。
func (d Descriptor) Stored() bool {
	return d.Backend == Document
}

// Registry はゲーム識別子から定義を引く読み取り専用の表。
type Registry struct {
	games map[string]Descriptor
}

// 定義の検証エラー。
var (
	ErrDuplicateGame      = errors.New("ゲーム識別子が重複しています")
	ErrIncompleteGame     = errors.New("ドキュメントストアのゲームにはコレクションと変換器が必要です")
	ErrEmptyGameID        = errors.New("ゲーム識別子が空です")
	ErrUnsupportedBackend = errors.New("未対応のバックエンドです")
)

// NewRegistry は定義を検証してRegistryを生成する。
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	games := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		if d.ID == "" {
			return nil, ErrEmptyGameID
		}
		if _, ok := games[d.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGame, d.ID)
		}
		switch d.Backend {
		case External, Magic:
		case Document:
			if d.Collection == "" || d.Translator == nil {
				return nil, fmt.Errorf("%w: %s", ErrIncompleteGame, d.ID)
			}
		default:
			return nil, fmt.Errorf("%w: %s: %d", ErrUnsupportedBackend, d.ID, d.Backend)
		}
		games[d.ID] = d
	}
	return &Registry{games: games}, nil
}

// Resolve はゲーム識別子の定義を返す。大文字小文字を区別する。
func (r *Registry) Resolve(id string) (Descriptor, bool) {
	d, ok := r.games[id]
	return d, ok
}

// IsKnown はサポート対象のゲームかを返す。
func (r *Registry) IsKnown(id string) bool {
	_, ok := r.games[id]
	return ok
}

// IsInternal は外部APIへのプロキシではなく、このサービスが自前で提供するゲームかを返す。
// Magic専用アダプタのゲームも含む。
func (r *Registry) IsInternal(id string) bool {
	d, ok := r.games[id]
	return ok && d.Backend != External
}

// IDs は登録されたゲーム識別子を昇順で返す。
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
