package model

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// 节目类型
const (
	ShowTypeMovie  = "Movie"
	ShowTypeTVShow = "TV Show"
)

// Show 节目模型（电影 / 剧集，来自 Netflix 数据集）
type Show struct {
	ID          int            `json:"id" db:"id" gorm:"primaryKey"`
	ShowID      string         `json:"show_id" db:"show_id" gorm:"uniqueIndex;not null"`
	Type        string         `json:"type" db:"type" gorm:"not null;index:idx_shows_type_rating"`
	Title       string         `json:"title" db:"title" gorm:"not null;index"`
	Director    string         `json:"director,omitempty" db:"director"`
	Cast        pq.StringArray `json:"cast" db:"cast_members" gorm:"column:cast_members;type:text[]"`
	Country     string         `json:"country,omitempty" db:"country"`
	DateAdded   string         `json:"date_added,omitempty" db:"date_added"`
	ReleaseYear int            `json:"release_year" db:"release_year" gorm:"not null;index"`
	Rating      string         `json:"rating,omitempty" db:"rating" gorm:"index:idx_shows_type_rating"`
	Duration    string         `json:"duration,omitempty" db:"duration"`
	ListedIn    pq.StringArray `json:"listed_in" db:"listed_in" gorm:"type:text[]"`
	Description string         `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// IsValidShowType 判断是否为合法的节目类型
func IsValidShowType(t string) bool {
	return t == ShowTypeMovie || t == ShowTypeTVShow
}

// MarshalJSON 保证 cast / listed_in 始终输出为数组而不是 null
func (s Show) MarshalJSON() ([]byte, error) {
	type alias Show
	a := alias(s)
	if a.Cast == nil {
		a.Cast = pq.StringArray{}
	}
	if a.ListedIn == nil {
		a.ListedIn = pq.StringArray{}
	}
	return json.Marshal(a)
}
