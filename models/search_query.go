package models

import "time"

// SearchQuery ist ein unveränderlicher Logeintrag einer ausgeführten Suche.
type SearchQuery struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	RoundID uint         `json:"round_id" gorm:"not null;index"`
	Round   *SearchRound `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	QueryText  string    `json:"query_text" gorm:"type:text;not null"`
	ExecutedAt time.Time `json:"executed_at" gorm:"not null"`
	Notes      *string   `json:"notes,omitempty" gorm:"type:text"`
}

func (SearchQuery) TableName() string { return "search_queries" }
