package model

// EntityKind 实体类别
type EntityKind uint8

const (
	EntityGenre EntityKind = iota
	EntityCountry
	EntityLanguage
	EntityPerson
)

var entityTables = [...]string{
	EntityGenre:    "genres",
	EntityCountry:  "countries",
	EntityLanguage: "languages",
	EntityPerson:   "persons",
}

// Table 实体表名
func (k EntityKind) Table() string { return entityTables[k] }

func (k EntityKind) String() string {
	switch k {
	case EntityGenre:
		return "genre"
	case EntityCountry:
		return "country"
	case EntityLanguage:
		return "language"
	case EntityPerson:
		return "person"
	}
	return "unknown"
}

// LinkCategory 电影与实体之间的关联类别
type LinkCategory uint8

const (
	LinkGenre LinkCategory = iota
	LinkCountry
	LinkLanguage
	LinkCast
	LinkDirector
	LinkWriter
)

// LinkCategories 处理顺序固定
var LinkCategories = [...]LinkCategory{
	LinkGenre, LinkCountry, LinkLanguage, LinkCast, LinkDirector, LinkWriter,
}

type linkInfo struct {
	name   string
	table  string
	column string
	field  string // 原始记录中的字段名
	entity EntityKind
}

var linkTable = [...]linkInfo{
	LinkGenre:    {"genre", "movie_genres", "genre_id", "genres", EntityGenre},
	LinkCountry:  {"country", "movie_countries", "country_id", "countries", EntityCountry},
	LinkLanguage: {"language", "movie_languages", "language_id", "languages", EntityLanguage},
	LinkCast:     {"cast", "movie_cast", "person_id", "cast", EntityPerson},
	LinkDirector: {"director", "movie_directors", "person_id", "directors", EntityPerson},
	LinkWriter:   {"writer", "movie_writers", "person_id", "writers", EntityPerson},
}

// Table 关联表名
func (c LinkCategory) Table() string { return linkTable[c].table }

// Column 关联表中指向实体的外键列
func (c LinkCategory) Column() string { return linkTable[c].column }

// SourceField 原始记录里承载该类别名称列表的字段
func (c LinkCategory) SourceField() string { return linkTable[c].field }

// Entity 关联指向的实体类别
func (c LinkCategory) Entity() EntityKind { return linkTable[c].entity }

func (c LinkCategory) String() string { return linkTable[c].name }
