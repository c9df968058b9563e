// Command themectl reads and changes theme preferences through the themeprefs HTTP API.
//
//	themectl [-server URL] -user ID get|set <mode>|toggle|os <scheme>|os detect|palette
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/scheme"
)

// Replaced in tests.
var localDetectors = func() []scheme.Detector {
	return append(scheme.DefaultDetectors(), scheme.TerminalDetector{})
}

// detectScheme reads this machine's colour scheme, falling back to light.
func detectScheme(ctx context.Context) themeprefs.Scheme {
	w := scheme.NewWatcher(ctx,
		scheme.WithDetectors(localDetectors()...),
		scheme.WithWatcherLogger(themeprefs.NewLogger(io.Discard, "text", themeprefs.LogLevelError)),
	)
	return w.Current()
}

const usage = "usage: themectl [-server URL] -user ID get|set <mode>|toggle|os <scheme>|os detect|palette"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, http.DefaultClient); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, httpClient *http.Client) error {
	fs := flag.NewFlagSet("themectl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	server := fs.String("server", envOr("THEMECTL_SERVER", "http://localhost:8080"), "themeprefs server base URL")
	user := fs.String("user", os.Getenv("THEMECTL_USER"), "user id")
	noColor := fs.Bool("no-color", false, "disable coloured output")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v\n%s", err, usage)
	}
	if *noColor {
		color.NoColor = true
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	if *user == "" && rest[0] != "palette" {
		return fmt.Errorf("-user is required\n%s", usage)
	}

	c := &client{base: *server, user: *user, http: httpClient}

	switch cmd := rest[0]; cmd {
	case "get":
		st, err := c.theme(ctx)
		if err != nil {
			return err
		}
		printState(out, st)
	case "set", "os":
		if len(rest) != 2 {
			return fmt.Errorf("%s needs exactly one argument\n%s", cmd, usage)
		}
		var (
			st  themeState
			err error
		)
		switch {
		case cmd == "set":
			st, err = c.setMode(ctx, rest[1])
		case rest[1] == "detect":
			st, err = c.setOSScheme(ctx, string(detectScheme(ctx)))
		default:
			st, err = c.setOSScheme(ctx, rest[1])
		}
		if err != nil {
			return err
		}
		printState(out, st)
	case "toggle":
		st, err := c.toggle(ctx)
		if err != nil {
			return err
		}
		printState(out, st)
	case "palette":
		var (
			p   paletteResult
			err error
		)
		if len(rest) == 2 {
			p, err = c.namedPalette(ctx, rest[1])
		} else if *user != "" {
			p, err = c.palette(ctx)
		} else {
			return fmt.Errorf("palette needs -user or a scheme argument\n%s", usage)
		}
		if err != nil {
			return err
		}
		printPalette(out, p)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
