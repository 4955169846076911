package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Fehlerarten. Aufrufer unterscheiden damit "Eingabe korrigieren" von "erneut versuchen".
var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage failure")
)

// Error trägt Fehlerart, betroffene Entität und die ursprüngliche Ursache.
type Error struct {
	Kind    error
	Entity  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Entity != "" {
		return e.Entity + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidf(entity, format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string, cause error) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Message: "not found", Err: cause}
}

// storageFailure verbirgt die Ursache in der Meldung; sie bleibt per errors.Unwrap erreichbar.
func storageFailure(entity string, cause error) error {
	return &Error{Kind: ErrStorage, Entity: entity, Message: "could not complete request", Err: cause}
}

// classify übersetzt Datenbankfehler in die Fehlerarten.
func classify(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return notFound(entity, err)
	default:
		return storageFailure(entity, err)
	}
}

// KindOf liefert "invalid", "not_found", "storage" oder "" für unbekannte Fehler.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStorage):
		return "storage"
	}
	return ""
}

// Outcome ist das menschenlesbare Ergebnis einer mutierenden Operation.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeReused   Outcome = "reused"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeNotFound Outcome = "not-found"
	OutcomeLinked   Outcome = "linked"
	OutcomeUnlinked Outcome = "unlinked"
	OutcomeArchived Outcome = "archived"
)
