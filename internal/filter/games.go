package filter

// 各ゲームのパラメータ一覧。フィールド名はドキュメントストアに取り込んだ
// カードドキュメントのキーと一致させること。

// Sorcery はSorcery: Contested Realmのパラメータ一覧。
var Sorcery = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "element", Field: "elements", Match: AnyOf},
	{Param: "set", Field: "set", Match: Contains},
	{Param: "artist", Field: "artist", Match: Contains},
	{Param: "cost", Field: "cost", Match: Number},
	{Param: "cost_min", Field: "cost", Match: Min},
	{Param: "cost_max", Field: "cost", Match: Max},
	{Param: "attack", Field: "attack", Match: Number},
	{Param: "defence", Field: "defence", Match: Number},
}

// OnePiece はONE PIECEカードゲームのパラメータ一覧。
// codeはカード番号の前方一致（例: OP01）。
var OnePiece = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "code", Field: "id", Match: Prefix},
	{Param: "color", Field: "color", Match: AnyOf},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "cost", Field: "cost", Match: Number},
	{Param: "power", Field: "power", Match: Number},
	{Param: "counter", Field: "counter", Match: Number},
	{Param: "attribute", Field: "attribute", Match: Fold},
	{Param: "family", Field: "family", Match: Contains},
	{Param: "set", Field: "set", Match: Contains},
}

// Riftbound はRiftboundのパラメータ一覧。
var Riftbound = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "domain", Field: "domain", Match: AnyOf},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "energy", Field: "energy", Match: Number},
	{Param: "might", Field: "might", Match: Number},
	{Param: "set", Field: "set", Match: Contains},
}

// FleshAndBlood はFlesh and Bloodのパラメータ一覧。
var FleshAndBlood = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "pitch", Field: "pitch", Match: Number},
	{Param: "cost", Field: "cost", Match: Number},
	{Param: "power", Field: "power", Match: Number},
	{Param: "defense", Field: "defense", Match: Number},
	{Param: "types", Field: "types", Match: AnyOf},
	{Param: "class", Field: "class", Match: Fold},
	{Param: "talent", Field: "talent", Match: Fold},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "keywords", Field: "keywords", Match: AnyOf},
	{Param: "set", Field: "set", Match: Contains},
}

// YuGiOh は遊戯王のパラメータ一覧。攻撃力と守備力は範囲指定もできる。
var YuGiOh = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "race", Field: "race", Match: Fold},
	{Param: "attribute", Field: "attribute", Match: Fold},
	{Param: "archetype", Field: "archetype", Match: Contains},
	{Param: "frameType", Field: "frameType", Match: Exact},
	{Param: "level", Field: "level", Match: Number},
	{Param: "atk", Field: "atk", Match: Number},
	{Param: "def", Field: "def", Match: Number},
	{Param: "atk_min", Field: "atk", Match: Min},
	{Param: "atk_max", Field: "atk", Match: Max},
	{Param: "def_min", Field: "def", Match: Min},
	{Param: "def_max", Field: "def", Match: Max},
}

// StarWars はStar Wars: Unlimitedのパラメータ一覧。
var StarWars = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "aspect", Field: "aspects", Match: AnyOf},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "arena", Field: "arenas", Match: AnyOf},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "cost", Field: "cost", Match: Number},
	{Param: "power", Field: "power", Match: Number},
	{Param: "hp", Field: "hp", Match: Number},
	{Param: "set", Field: "set", Match: Exact},
	{Param: "trait", Field: "traits", Match: AnyOf},
}

// Gundam はGUNDAMカードゲームのパラメータ一覧。
var Gundam = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "color", Field: "color", Match: AnyOf},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "level", Field: "level", Match: Number},
	{Param: "cost", Field: "cost", Match: Number},
	{Param: "ap", Field: "ap", Match: Number},
	{Param: "hp", Field: "hp", Match: Number},
	{Param: "trait", Field: "traits", Match: AnyOf},
	{Param: "set", Field: "set", Match: Contains},
}

// UnionArena はUNION ARENAのパラメータ一覧。
var UnionArena = Catalog{
	{Param: "name", Field: "name", Match: Contains},
	{Param: "color", Field: "color", Match: AnyOf},
	{Param: "type", Field: "type", Match: Fold},
	{Param: "rarity", Field: "rarity", Match: Fold},
	{Param: "energy", Field: "energyCost", Match: Number},
	{Param: "ap", Field: "apCost", Match: Number},
	{Param: "bp", Field: "bp", Match: Number},
	{Param: "series", Field: "series", Match: Contains},
	{Param: "set", Field: "set", Match: Contains},
}
