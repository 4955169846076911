package models

import "time"

// EvidenceType ist die Art eines Belegs.
type EvidenceType string

const (
	EvidenceQuote      EvidenceType = "quote"
	EvidencePassage    EvidenceType = "passage"
	EvidenceScreenshot EvidenceType = "screenshot"
	EvidenceNote       EvidenceType = "note"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceQuote, EvidencePassage, EvidenceScreenshot, EvidenceNote:
		return true
	}
	return false
}

// Evidence ist eine begründete Relevanzaussage zu einer Quelle.
//
// ExtractID ist eine schwache Rückreferenz ohne Fremdschlüssel: wird das Extract
// gelöscht, bleibt der Beleg mit seiner eigenen Kopie der Felder bestehen.
type Evidence struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	SourceID uint    `json:"source_id" gorm:"not null;index"`
	Source   *Source `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	ExtractID *uint `json:"extract_id,omitempty" gorm:"index"`

	EvidenceType EvidenceType `json:"evidence_type" gorm:"not null"`
	EvidenceText string       `json:"evidence_text" gorm:"type:text;not null"`
	ContextText  string       `json:"context_text" gorm:"type:text;not null"`
	LocationRef  string       `json:"location_ref" gorm:"not null"`
	WhyRelevant  string       `json:"why_relevant" gorm:"type:text;not null"`
}

func (Evidence) TableName() string { return "evidence" }

func (Evidence) Lifecycle() LifecyclePolicy {
	return HardDelete
}
