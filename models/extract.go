package models

import "time"

// ExtractType unterscheidet Zitate von längeren Passagen.
type ExtractType string

const (
	ExtractQuote   ExtractType = "quote"
	ExtractPassage ExtractType = "passage"
)

func (t ExtractType) Valid() bool {
	return t == ExtractQuote || t == ExtractPassage
}

// Extract ist eine rohe, unbewertete Textstelle aus einer Quelle.
type Extract struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	SourceID uint    `json:"source_id" gorm:"not null;index"`
	Source   *Source `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	ExtractType ExtractType `json:"extract_type" gorm:"not null"`
	ExtractText string      `json:"extract_text" gorm:"type:text;not null"`
	ContextText string      `json:"context_text" gorm:"type:text;not null"`
	LocationRef string      `json:"location_ref" gorm:"not null"` // z.B. "S. 4, Abs. 2"
}

func (Extract) TableName() string { return "extracts" }

func (Extract) Lifecycle() LifecyclePolicy {
	return HardDelete
}
