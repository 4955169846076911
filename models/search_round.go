package models

import "time"

// SearchRound ist eine Iteration der Suche innerhalb eines Projekts.
type SearchRound struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID uint     `json:"project_id" gorm:"not null;index"`
	Project   *Project `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	Label     string `json:"label" gorm:"not null"` // z.B. "A"
	Objective string `json:"objective" gorm:"type:text;not null"`
}

func (SearchRound) TableName() string { return "search_rounds" }

// Lifecycle: Runden werden hart gelöscht, mitsamt Queries und Verknüpfungen.
func (SearchRound) Lifecycle() LifecyclePolicy {
	return HardDeleteCascade
}
