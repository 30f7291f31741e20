package model

import "time"

// Цвета темы по умолчанию (если строка settings отсутствует или поле пустое).
const (
	DefaultButtonColor     = "#6366f1"
	DefaultBackgroundColor = "#0f172a"
	DefaultCardBackground  = "#1e293b"
	DefaultTextPrimary     = "#f1f5f9"
	DefaultTextSecondary   = "#cbd5e1"
)

// SiteSettings — singleton с цветами темы публичных страниц.
type SiteSettings struct {
	ButtonColor     string
	BackgroundColor string
	CardBackground  string
	TextPrimary     string
	TextSecondary   string
	UpdatedAt       time.Time
}

// DefaultSettings возвращает настройки темы по умолчанию.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		ButtonColor:     DefaultButtonColor,
		BackgroundColor: DefaultBackgroundColor,
		CardBackground:  DefaultCardBackground,
		TextPrimary:     DefaultTextPrimary,
		TextSecondary:   DefaultTextSecondary,
	}
}

// WithDefaults возвращает копию, в которой пустые поля заменены значениями по умолчанию.
func (s SiteSettings) WithDefaults() SiteSettings {
	d := DefaultSettings()
	if s.ButtonColor == "" {
		s.ButtonColor = d.ButtonColor
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = d.BackgroundColor
	}
	if s.CardBackground == "" {
		s.CardBackground = d.CardBackground
	}
	if s.TextPrimary == "" {
		s.TextPrimary = d.TextPrimary
	}
	if s.TextSecondary == "" {
		s.TextSecondary = d.TextSecondary
	}
	return s
}
