package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	labelColor = color.New(color.FgCyan)
	darkColor  = color.New(color.FgHiWhite, color.BgBlack, color.Bold)
	lightColor = color.New(color.FgBlack, color.BgHiWhite, color.Bold)
)

func schemeLabel(scheme string) string {
	if scheme == "dark" {
		return darkColor.Sprintf(" %s ", scheme)
	}
	return lightColor.Sprintf(" %s ", scheme)
}

func printState(w io.Writer, st themeState) {
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("mode:  "), st.Mode)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("os:    "), st.OSScheme)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("scheme:"), schemeLabel(st.ColorScheme))
}

func printPalette(w io.Writer, p paletteResult) {
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("scheme:"), schemeLabel(p.ColorScheme))

	names := make([]string, 0, len(p.Variables))
	width := 0
	for name := range p.Variables {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		value := p.Variables[name]
		fmt.Fprintf(w, "%s  %-*s  %s\n", swatch(value), width, name, value)
	}
}

// swatch renders a block in the given #rrggbb colour, or blanks for other values.
func swatch(value string) string {
	r, g, b, ok := parseHex(value)
	if !ok {
		return "    "
	}
	return color.BgRGB(r, g, b).Sprint("    ")
}

func parseHex(value string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 || len(hex) == len(value) {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff), true
}
