package indexcmd

// FeatureGates exposes runtime feature toggles required by index command
// handlers. Callers supply closures reading from runtime configuration so the
// handlers stay decoupled from the config package.
type FeatureGates struct {
	IndexEnabled       func() bool
	PersistenceEnabled func() bool
}

func (g FeatureGates) indexEnabled() bool {
	if g.IndexEnabled == nil {
		return true
	}
	return g.IndexEnabled()
}

func (g FeatureGates) persistenceEnabled() bool {
	if g.PersistenceEnabled == nil {
		return true
	}
	return g.PersistenceEnabled()
}
