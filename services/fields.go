package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// nullIfEmpty speichert leere optionale Felder als NULL statt "".
func nullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseDate akzeptiert "2006-01-02" oder RFC3339 und liefert immer UTC,
// damit gespeicherte Zeitpunkte auch als Text (SQLite) richtig sortieren.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// optionalDate wandelt einen leeren String in nil um und validiert sonst das Format.
func optionalDate(entity, field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, invalidf(entity, "%s must be a date (YYYY-MM-DD or RFC3339)", field)
	}
	return &t, nil
}

// requireFields prüft Pflichtfelder nach dem Trimmen; names und values sind paarweise.
func requireFields(entity string, names []string, values ...*string) error {
	var missing []string
	for i, v := range values {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			missing = append(missing, names[i])
		}
	}
	if len(missing) > 0 {
		return invalidf(entity, "%s required", strings.Join(missing, ", "))
	}
	return nil
}

// ensureExists prüft per ID, ob eine Zeile existiert; fehlende Zeilen sind ErrNotFound.
func ensureExists(ctx context.Context, db *gorm.DB, model any, id uint, entity string) error {
	if id == 0 {
		return notFound(entity, nil)
	}
	err := db.WithContext(ctx).Select("id").Where("id = ?", id).Take(model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, err)
	}
	return classify(entity, err)
}

func trimmed(s string) string { return strings.TrimSpace(s) }
