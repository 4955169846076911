package models

// LifecyclePolicy legt fest, wie eine Entität entfernt wird.
type LifecyclePolicy string

const (
	// SoftArchive setzt nur ein Flag bzw. einen Status; die Zeile bleibt erhalten.
	SoftArchive LifecyclePolicy = "soft-archive"
	// HardDelete entfernt genau eine Zeile ohne Kaskade.
	HardDelete LifecyclePolicy = "hard-delete"
	// HardDeleteCascade entfernt die Zeile samt eigener Kindzeilen (nicht geteilter Daten).
	HardDeleteCascade LifecyclePolicy = "hard-delete-cascade"
)

// Lifecycled wird von allen Entitäten mit expliziter Löschpolitik implementiert.
type Lifecycled interface {
	Lifecycle() LifecyclePolicy
}
