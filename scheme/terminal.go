package scheme

import (
	"context"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/CreativeUnicorns/themeprefs"
)

// Replaced in tests.
var (
	hasDarkBackground = lipgloss.HasDarkBackground
	stdoutIsTerminal  = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
)

// TerminalDetector infers the scheme from the background colour of the terminal
// on stdout. It is meant for command line clients and is not a default detector.
type TerminalDetector struct{}

func (TerminalDetector) Name() string    { return "terminal" }
func (TerminalDetector) Priority() int   { return 5 }
func (TerminalDetector) Available() bool { return stdoutIsTerminal() }

func (TerminalDetector) Detect(ctx context.Context) (themeprefs.Scheme, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if hasDarkBackground() {
		return themeprefs.SchemeDark, nil
	}
	return themeprefs.SchemeLight, nil
}
