package models

import "time"

// RoundSource verknüpft eine Runde mit einer in ihr konsultierten Quelle (n:m).
type RoundSource struct {
	RoundID   uint      `json:"round_id" gorm:"primaryKey;autoIncrement:false"`
	SourceID  uint      `json:"source_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`

	Round  *SearchRound `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Source *Source      `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

func (RoundSource) TableName() string { return "round_sources" }
