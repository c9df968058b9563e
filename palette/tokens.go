// Package palette holds the design tokens and the per-scheme CSS variable maps
// that clients apply once a scheme is resolved.
package palette

import (
	"strings"
)

// FallbackColor is returned by TokenColor for unknown paths.
const FallbackColor = "#000000"

var tokens = map[string]map[string]string{
	"primary": {
		"cyan": "#009FE3",
		"blue": "#28529C",
		"teal": "#0074A5",
		"red":  "#CC1A1A",
	},
	"neutral": {
		"white": "#FFFFFF",
		"50":    "#F2F4F7",
		"100":   "#F9FAFB",
		"200":   "#E5E7EB",
		"300":   "#D1D5DB",
		"400":   "#98A2B3",
		"500":   "#6B7280",
		"600":   "#4B5563",
		"700":   "#344054",
		"800":   "#1D2939",
		"900":   "#0F172A",
	},
	"secondary": {
		"lightBlue": "#E6F4FA",
		"green":     "#A6C48A",
		"yellow":    "#F2C94C",
		"darkNavy":  "#0F172A",
	},
	"semantic": {
		"success":      "#A6C48A",
		"successLight": "#D4E4C4",
		"successDark":  "#86B967",
		"error":        "#CC1A1A",
		"errorLight":   "#FECACA",
		"errorDark":    "#EF4444",
		"warning":      "#F2C94C",
		"warningLight": "#FEF3C7",
		"warningDark":  "#F59E0B",
		"info":         "#009FE3",
		"infoLight":    "#DBEAFE",
		"infoDark":     "#3B82F6",
	},
}

// TokenColor resolves a "group.name" path such as "primary.cyan" to its hex
// value. Unknown or incomplete paths yield FallbackColor.
func TokenColor(path string) string {
	group, name, ok := strings.Cut(path, ".")
	if !ok || strings.Contains(name, ".") {
		return FallbackColor
	}
	if v, ok := tokens[group][name]; ok {
		return v
	}
	return FallbackColor
}

// Tokens returns a copy of every token keyed by its dotted path.
func Tokens() map[string]string {
	out := make(map[string]string)
	for group, names := range tokens {
		for name, v := range names {
			out[group+"."+name] = v
		}
	}
	return out
}

// token panics on unknown paths; only used to build the scheme maps below.
func token(path string) string {
	v := TokenColor(path)
	if v == FallbackColor {
		panic("palette: unknown token " + path)
	}
	return v
}
