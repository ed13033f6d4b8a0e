package tui

import "github.com/mmcdole/albumshelf/internal/catalog"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogsLoadedMsg signals that both catalogs have been loaded
type CatalogsLoadedMsg struct {
	Video *catalog.Catalog
	Audio *catalog.Catalog
}

// EngineUpdateMsg signals that the engine published new state
type EngineUpdateMsg struct{}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
