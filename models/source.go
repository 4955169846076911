package models

import "time"

// SourceType ist die Art einer Quelle.
type SourceType string

const (
	SourceArticle SourceType = "article"
	SourceVideo   SourceType = "video"
	SourcePaper   SourceType = "paper"
	SourcePost    SourceType = "post"
	SourceOther   SourceType = "other"
)

// Valid prüft, ob der Typ einer der bekannten Quellentypen ist.
func (t SourceType) Valid() bool {
	switch t {
	case SourceArticle, SourceVideo, SourcePaper, SourcePost, SourceOther:
		return true
	}
	return false
}

// Source ist eine projektweite, deduplizierte Referenz auf ein externes Dokument.
// Quellen gehören zum Projekt, nicht zur Runde, und werden nie physisch gelöscht.
type Source struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint     `json:"project_id" gorm:"not null;index:idx_sources_project_normalized"`
	Project   *Project `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	URL           string     `json:"url" gorm:"type:text;not null"`
	NormalizedURL string     `json:"normalized_url" gorm:"size:2048;not null;index:idx_sources_project_normalized"`
	SourceType    SourceType `json:"source_type" gorm:"not null"`

	// Beschreibende Metadaten: first-write-wins, leere Werte als NULL
	Title       *string    `json:"title,omitempty"`
	Author      *string    `json:"author,omitempty"`
	Publisher   *string    `json:"publisher,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Summary     *string    `json:"summary,omitempty" gorm:"type:text"`
	Notes       *string    `json:"notes,omitempty" gorm:"type:text"`

	IsArchived bool `json:"is_archived" gorm:"not null;default:false;index"`
}

func (Source) TableName() string { return "sources" }

// Lifecycle: Quellen werden nur archiviert, damit Evidenz nachvollziehbar bleibt.
func (Source) Lifecycle() LifecyclePolicy {
	return SoftArchive
}
