package palette

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CreativeUnicorns/themeprefs"
)

func TestTokenColor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"primary.cyan", "#009FE3"},
		{"neutral.900", "#0F172A"},
		{"secondary.darkNavy", "#0F172A"},
		{"semantic.warningDark", "#F59E0B"},
		{"primary", FallbackColor},
		{"primary.magenta", FallbackColor},
		{"tertiary.cyan", FallbackColor},
		{"primary.cyan.extra", FallbackColor},
		{"", FallbackColor},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenColor(tt.path))
		})
	}
}

func TestTokens_IsCopy(t *testing.T) {
	all := Tokens()
	assert.Len(t, all, 4+11+4+12)
	all["primary.cyan"] = "#FFFFFF"
	assert.Equal(t, "#009FE3", TokenColor("primary.cyan"))
}

func TestFor(t *testing.T) {
	l := For(themeprefs.SchemeLight)
	d := For(themeprefs.SchemeDark)

	assert.Equal(t, "#ffffff", l["--color-background"])
	assert.Equal(t, "#0F172A", d["--color-background"])
	assert.Equal(t, "#009FE3", l["--color-link"])
	assert.Equal(t, "#60a5fa", d["--color-link"])

	// Unknown schemes get the light palette.
	assert.Equal(t, l, For("sepia"))
}

func TestFor_SameVariableSet(t *testing.T) {
	keys := func(v Variables) []string {
		out := make([]string, 0, len(v))
		for k := range v {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, keys(For(themeprefs.SchemeLight)), keys(For(themeprefs.SchemeDark)))
}

func TestFor_IsCopy(t *testing.T) {
	v := For(themeprefs.SchemeDark)
	v["--color-background"] = "#123456"

	got, ok := For(themeprefs.SchemeDark).Get("--color-background")
	assert.True(t, ok)
	assert.Equal(t, "#0F172A", got)

	_, ok = v.Get("--color-missing")
	assert.False(t, ok)
}
