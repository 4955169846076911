package storage

import (
	"context"
	"sort"
	"time"
)

// Object beschreibt ein abgelegtes Artefakt.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore ist die Ablage für Dossier-Snapshots und Datenbank-Backups.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}

// Rotate behält unter prefix die keep neuesten Objekte und löscht den Rest.
// Neuer heißt: späteres LastModified, bei Gleichstand größerer Key. Liefert die gelöschten Keys.
func Rotate(ctx context.Context, store ObjectStore, prefix string, keep int) ([]string, error) {
	objects, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(objects) <= keep {
		return nil, nil
	}

	sort.Slice(objects, func(i, j int) bool {
		if !objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].LastModified.After(objects[j].LastModified)
		}
		return objects[i].Key > objects[j].Key
	})

	var deleted []string
	for _, obj := range objects[keep:] {
		if err := store.Delete(ctx, obj.Key); err != nil {
			return deleted, err
		}
		deleted = append(deleted, obj.Key)
	}
	return deleted, nil
}
