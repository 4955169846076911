package models

import "time"

// ProjectStatus beschreibt den Lebenszyklus eines Projekts.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// Project ist die Wurzel aller Recherche-Daten: eine Forschungsfrage mit optionaler Hypothese.
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title            string  `json:"title" gorm:"not null"`
	ResearchQuestion string  `json:"research_question" gorm:"type:text;not null"`
	Hypothesis       *string `json:"hypothesis,omitempty" gorm:"type:text"`

	// Optionaler Untersuchungszeitraum
	TimespanStart *time.Time `json:"timespan_start,omitempty"`
	TimespanEnd   *time.Time `json:"timespan_end,omitempty"`

	Status ProjectStatus `json:"status" gorm:"index;not null;default:'active'"`
}

// TableName gibt explizit den Tabellennamen an.
func (Project) TableName() string {
	return "projects"
}

// Lifecycle: Projekte werden nur archiviert, nie gelöscht.
func (Project) Lifecycle() LifecyclePolicy {
	return SoftArchive
}
