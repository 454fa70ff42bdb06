package model

// Genre 类型
type Genre struct {
	ID   int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"uniqueIndex;not null"`
}

func (Genre) TableName() string { return "genres" }

// Country 国家/地区
type Country struct {
	ID   int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"uniqueIndex;not null"`
}

func (Country) TableName() string { return "countries" }

// Language 语言
type Language struct {
	ID   int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"uniqueIndex;not null"`
}

func (Language) TableName() string { return "languages" }

// Person 人物（演员/导演/编剧共用）
type Person struct {
	ID   int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"uniqueIndex;not null"`
}

func (Person) TableName() string { return "persons" }

// Entity 四类实体表共用的行结构，配合 Table() 使用
type Entity struct {
	ID   int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name"`
}

// MovieGenre 电影-类型
type MovieGenre struct {
	MovieID int64  `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	GenreID int64  `json:"genre_id" db:"genre_id" gorm:"primaryKey;autoIncrement:false"`
	Movie   *Movie `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Genre   *Genre `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieGenre) TableName() string { return "movie_genres" }

// MovieCountry 电影-国家
type MovieCountry struct {
	MovieID   int64    `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	CountryID int64    `json:"country_id" db:"country_id" gorm:"primaryKey;autoIncrement:false"`
	Movie     *Movie   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Country   *Country `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieCountry) TableName() string { return "movie_countries" }

// MovieLanguage 电影-语言
type MovieLanguage struct {
	MovieID    int64     `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	LanguageID int64     `json:"language_id" db:"language_id" gorm:"primaryKey;autoIncrement:false"`
	Movie      *Movie    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Language   *Language `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieLanguage) TableName() string { return "movie_languages" }

// MovieCast 电影-演员
type MovieCast struct {
	MovieID  int64   `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	PersonID int64   `json:"person_id" db:"person_id" gorm:"primaryKey;autoIncrement:false"`
	Movie    *Movie  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Person   *Person `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieCast) TableName() string { return "movie_cast" }

// MovieDirector 电影-导演
type MovieDirector struct {
	MovieID  int64   `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	PersonID int64   `json:"person_id" db:"person_id" gorm:"primaryKey;autoIncrement:false"`
	Movie    *Movie  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Person   *Person `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieDirector) TableName() string { return "movie_directors" }

// MovieWriter 电影-编剧
type MovieWriter struct {
	MovieID  int64   `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	PersonID int64   `json:"person_id" db:"person_id" gorm:"primaryKey;autoIncrement:false"`
	Movie    *Movie  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Person   *Person `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieWriter) TableName() string { return "movie_writers" }

// AllModels 建表顺序：主表、实体表、关联表
func AllModels() []any {
	return []any{
		&Movie{},
		&Genre{}, &Country{}, &Language{}, &Person{},
		&MovieGenre{}, &MovieCountry{}, &MovieLanguage{},
		&MovieCast{}, &MovieDirector{}, &MovieWriter{},
	}
}
