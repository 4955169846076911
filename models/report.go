package models

// ReportDocument ist der vollständig geordnete Baum für den Dossier-Export.
// Archivierte Quellen sind enthalten: der Report ist ein Prüfartefakt.
type ReportDocument struct {
	Project Project        `json:"project"`
	Rounds  []ReportRound  `json:"rounds"`
	Sources []ReportSource `json:"sources"`
}

// ReportRound enthält eine Runde mit ihren Queries und den verknüpften Quellen-IDs.
type ReportRound struct {
	Round     SearchRound   `json:"round"`
	Queries   []SearchQuery `json:"queries"`
	SourceIDs []uint        `json:"source_ids"`
}

// ReportSource enthält eine Quelle mit Belegen und Extracts.
type ReportSource struct {
	Number   int        `json:"number"`
	Source   Source     `json:"source"`
	Evidence []Evidence `json:"evidence"`
	Extracts []Extract  `json:"extracts"`
}

// SourceNumber liefert die laufende Nummer einer Quelle im Report (0 wenn unbekannt).
func (d *ReportDocument) SourceNumber(sourceID uint) int {
	for _, s := range d.Sources {
		if s.Source.ID == sourceID {
			return s.Number
		}
	}
	return 0
}
