package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// RawRecord 数据集中的一条原始（反规范化）电影记录
type RawRecord map[string]any

// Movie 电影扁平行（嵌套的 imdb/awards/tomatoes 已展开为列）
type Movie struct {
	ID                       int64      `json:"id" db:"id" gorm:"primaryKey"`
	ExternalID               string     `json:"external_id" db:"external_id" gorm:"uniqueIndex;not null"`
	Title                    *string    `json:"title" db:"title"`
	Plot                     *string    `json:"plot" db:"plot"`
	FullPlot                 *string    `json:"fullplot" db:"fullplot" gorm:"column:fullplot"`
	Runtime                  *int       `json:"runtime" db:"runtime"`
	Rated                    *string    `json:"rated" db:"rated"`
	Type                     *string    `json:"type" db:"type"`
	Poster                   *string    `json:"poster" db:"poster"`
	NumMflixComments         *int       `json:"num_mflix_comments" db:"num_mflix_comments"`
	Year                     *int       `json:"year" db:"year"`
	Released                 *time.Time `json:"released" db:"released"`
	LastUpdated              *time.Time `json:"lastupdated" db:"lastupdated" gorm:"column:lastupdated"`
	AwardsWins               *int       `json:"awards_wins" db:"awards_wins"`
	AwardsNominations        *int       `json:"awards_nominations" db:"awards_nominations"`
	AwardsText               *string    `json:"awards_text" db:"awards_text"`
	IMDbRating               *float64   `json:"imdb_rating" db:"imdb_rating" gorm:"column:imdb_rating"`
	IMDbVotes                *int       `json:"imdb_votes" db:"imdb_votes" gorm:"column:imdb_votes"`
	IMDbID                   *string    `json:"imdb_id" db:"imdb_id" gorm:"column:imdb_id"`
	TomatoesViewerRating     *float64   `json:"tomatoes_viewer_rating" db:"tomatoes_viewer_rating" gorm:"column:tomatoes_viewer_rating"`
	TomatoesViewerNumReviews *int       `json:"tomatoes_viewer_numreviews" db:"tomatoes_viewer_numreviews" gorm:"column:tomatoes_viewer_numreviews"`
	TomatoesViewerMeter      *int       `json:"tomatoes_viewer_meter" db:"tomatoes_viewer_meter" gorm:"column:tomatoes_viewer_meter"`
	TomatoesCriticRating     *float64   `json:"tomatoes_critic_rating" db:"tomatoes_critic_rating" gorm:"column:tomatoes_critic_rating"`
	TomatoesCriticNumReviews *int       `json:"tomatoes_critic_numreviews" db:"tomatoes_critic_numreviews" gorm:"column:tomatoes_critic_numreviews"`
	TomatoesCriticMeter      *int       `json:"tomatoes_critic_meter" db:"tomatoes_critic_meter" gorm:"column:tomatoes_critic_meter"`
	TomatoesDVD              *time.Time `json:"tomatoes_dvd" db:"tomatoes_dvd" gorm:"column:tomatoes_dvd"`
	TomatoesProduction       *string    `json:"tomatoes_production" db:"tomatoes_production" gorm:"column:tomatoes_production"`
	TomatoesLastUpdated      *time.Time `json:"tomatoes_lastupdated" db:"tomatoes_lastupdated" gorm:"column:tomatoes_lastupdated"`
	PlotEmbedding            Embedding  `json:"plot_embedding" db:"plot_embedding"`
	InsertedAt               time.Time  `json:"inserted_at" db:"inserted_at" gorm:"autoCreateTime"`

	// KeyGenerated 为 true 表示记录没有自带的自然键，ExternalID 是临时生成的
	KeyGenerated bool `json:"-" db:"-" gorm:"-"`
}

func (Movie) TableName() string { return "movies" }

// DisplayName 日志中展示的名称
func (m *Movie) DisplayName() string {
	if m.Title != nil && *m.Title != "" {
		return *m.Title
	}
	return m.ExternalID
}

// Embedding 剧情向量
// PostgreSQL 下存为 float8[]，其他方言存为数组文本
type Embedding []float64

// Value 空向量写入 NULL
func (e Embedding) Value() (driver.Value, error) {
	if len(e) == 0 {
		return nil, nil
	}
	return pq.Float64Array(e).Value()
}

func (e *Embedding) Scan(src any) error {
	var a pq.Float64Array
	if err := a.Scan(src); err != nil {
		return err
	}
	*e = Embedding(a)
	return nil
}

func (Embedding) GormDataType() string { return "float8[]" }

func (Embedding) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "float8[]"
	}
	return "text"
}

// MoviePlotVector pgvector 剧情向量索引行，仅在开启向量索引时建表
type MoviePlotVector struct {
	MovieID   int64           `json:"movie_id" db:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	Embedding pgvector.Vector `json:"embedding" db:"embedding" gorm:"type:vector;not null"`
	Movie     *Movie          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (MoviePlotVector) TableName() string { return "movie_plot_vectors" }
