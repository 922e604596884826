//go:build !ebiten

package ui

import "minotaur/internal/core"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{ showPath bool }

// NewOverlay constructs a stub overlay.
func NewOverlay(_ core.Sim, _ int, showPath bool) *Overlay { return &Overlay{showPath: showPath} }

// ShowPath reports the configured toggle.
func (o *Overlay) ShowPath() bool { return o.showPath }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
