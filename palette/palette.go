package palette

import (
	"github.com/CreativeUnicorns/themeprefs"
)

// Variables maps CSS custom property names to colour values.
type Variables map[string]string

var light = Variables{
	"--color-background": "#ffffff",
	"--color-surface":    token("neutral.50"),
	"--color-card":       "#ffffff",
	"--color-overlay":    "rgba(0, 0, 0, 0.5)",

	"--color-primary-text":   token("neutral.900"),
	"--color-secondary-text": token("neutral.700"),
	"--color-tertiary-text":  token("neutral.400"),
	"--color-inverse-text":   "#ffffff",
	"--color-link":           token("primary.cyan"),
	"--color-disabled":       token("neutral.400"),

	"--color-success":       token("semantic.success"),
	"--color-success-light": token("semantic.successLight"),
	"--color-error":         token("semantic.error"),
	"--color-error-light":   token("semantic.errorLight"),
	"--color-warning":       token("semantic.warning"),
	"--color-warning-light": token("semantic.warningLight"),
	"--color-info":          token("primary.cyan"),
	"--color-info-light":    token("secondary.lightBlue"),

	"--color-border":       token("neutral.200"),
	"--color-border-light": token("neutral.50"),
	"--color-border-dark":  token("neutral.700"),
	"--color-border-focus": token("primary.cyan"),
	"--color-divider":      token("neutral.200"),

	"--color-input-bg":          "#ffffff",
	"--color-input-border":      token("neutral.300"),
	"--color-input-text":        token("neutral.900"),
	"--color-input-placeholder": token("neutral.400"),
	"--color-input-disabled":    token("neutral.100"),

	"--color-button-primary-bg":     token("primary.cyan"),
	"--color-button-primary-text":   "#ffffff",
	"--color-button-secondary-bg":   token("neutral.50"),
	"--color-button-secondary-text": token("neutral.700"),
	"--color-button-ghost-text":     token("primary.cyan"),

	"--color-shadow":    "rgba(0, 0, 0, 0.1)",
	"--color-shadow-lg": "rgba(0, 0, 0, 0.2)",
}

var dark = Variables{
	"--color-background": token("neutral.900"),
	"--color-surface":    token("neutral.800"),
	"--color-card":       token("neutral.800"),
	"--color-overlay":    "rgba(0, 0, 0, 0.7)",

	"--color-primary-text":   token("neutral.100"),
	"--color-secondary-text": token("neutral.300"),
	"--color-tertiary-text":  token("neutral.400"),
	"--color-inverse-text":   token("neutral.900"),
	"--color-link":           "#60a5fa",
	"--color-disabled":       token("neutral.500"),

	"--color-success":       token("semantic.successDark"),
	"--color-success-light": "#3f5437",
	"--color-error":         token("semantic.errorDark"),
	"--color-error-light":   "#7f1d1d",
	"--color-warning":       token("semantic.warningDark"),
	"--color-warning-light": "#78350f",
	"--color-info":          "#3b82f6",
	"--color-info-light":    "#1e3a8a",

	"--color-border":       token("neutral.600"),
	"--color-border-light": token("neutral.800"),
	"--color-border-dark":  token("neutral.300"),
	"--color-border-focus": "#60a5fa",
	"--color-divider":      token("neutral.600"),

	"--color-input-bg":          token("neutral.800"),
	"--color-input-border":      token("neutral.600"),
	"--color-input-text":        token("neutral.100"),
	"--color-input-placeholder": token("neutral.500"),
	"--color-input-disabled":    token("neutral.900"),

	"--color-button-primary-bg":     "#3b82f6",
	"--color-button-primary-text":   "#ffffff",
	"--color-button-secondary-bg":   token("neutral.600"),
	"--color-button-secondary-text": token("neutral.100"),
	"--color-button-ghost-text":     "#60a5fa",

	"--color-shadow":    "rgba(0, 0, 0, 0.3)",
	"--color-shadow-lg": "rgba(0, 0, 0, 0.5)",
}

// For returns a copy of the variables for s. Anything other than dark gets the light palette.
func For(s themeprefs.Scheme) Variables {
	src := light
	if s == themeprefs.SchemeDark {
		src = dark
	}
	out := make(Variables, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Get returns a single variable for s.
func (v Variables) Get(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}
