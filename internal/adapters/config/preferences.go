package config

import "go.trai.ch/mirror/internal/core/ports"

// Preferences implements ports.DisplayPreferences from the display section.
type Preferences struct {
	page     int
	pageSize int
}

var _ ports.DisplayPreferences = Preferences{}

// NewPreferences returns the display preferences of cfg.
func NewPreferences(cfg *Config) Preferences {
	return Preferences{page: cfg.Display.Page, pageSize: cfg.Display.PageSize}
}

// DefaultPage returns the configured first page.
func (p Preferences) DefaultPage() int { return p.page }

// DefaultPageSize returns the configured page size.
func (p Preferences) DefaultPageSize() int { return p.pageSize }
