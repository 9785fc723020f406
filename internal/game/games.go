package game

import "github.com/nao1215/cardhub/internal/filter"

// Descriptors はサポートする全ゲームの定義を返す。
func Descriptors() []Descriptor {
	return []Descriptor{
		{ID: "digimon", Backend: External},
		{ID: "pokemon", Backend: External},
		{ID: "dragon-ball-fusion", Backend: External},

		{ID: "magic", Backend: Magic},

		{ID: "sorcery", Backend: Document, Collection: "sorcery", Translator: filter.Sorcery},
		{ID: "one-piece", Backend: Document, Collection: "one-piece", Translator: filter.OnePiece},
		{ID: "riftbound", Backend: Document, Collection: "riftbound", Translator: filter.Riftbound},
		{ID: "fab", Backend: Document, Collection: "fab", Translator: filter.FleshAndBlood},
		{ID: "yugioh", Backend: Document, Collection: "yugioh", Translator: filter.YuGiOh},
		{ID: "star-wars", Backend: Document, Collection: "star-wars", Translator: filter.StarWars},
		{ID: "gundam", Backend: Document, Collection: "gundam", Translator: filter.Gundam},
		{ID: "union-arena", Backend: Document, Collection: "union-arena", Translator: filter.UnionArena},
	}
}

// Default はサポートする全ゲームのRegistryを返す。
// 定義は固定のため、検証に失敗した場合はパニックする。
func Default() *Registry {
	r, err := NewRegistry(Descriptors()...)
	if err != nil {
		panic(err)
	}
	return r
}
