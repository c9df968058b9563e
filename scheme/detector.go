package scheme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rymdport/portal/settings"

	"github.com/CreativeUnicorns/themeprefs"
)

// EnvVar overrides OS detection when set to "light" or "dark".
const EnvVar = "THEMEPREFS_OS_SCHEME"

// ErrUndetected is returned by a Detector that could not determine the scheme.
var ErrUndetected = errors.New("scheme: not detected")

// Detector reads the OS colour scheme from one source.
type Detector interface {
	// Name identifies the detector in logs.
	Name() string
	// Priority orders detectors; higher values are consulted first.
	Priority() int
	// Available reports whether the detector can run on this system.
	Available() bool
	// Detect returns the current scheme or an error.
	Detect(ctx context.Context) (themeprefs.Scheme, error)
}

// Replaced in tests.
var (
	runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
		out, err := exec.CommandContext(ctx, name, args...).Output()
		return string(out), err
	}
	lookPath      = exec.LookPath
	goos          = runtime.GOOS
	readPortalKey = settings.ReadOne
)

// DefaultDetectors returns the built-in detectors.
func DefaultDetectors() []Detector {
	return []Detector{EnvDetector{}, DarwinDetector{}, PortalDetector{}, GSettingsDetector{}}
}

// EnvDetector reads the scheme from an environment variable, EnvVar by default.
type EnvDetector struct {
	Var string
}

func (d EnvDetector) variable() string {
	if d.Var == "" {
		return EnvVar
	}
	return d.Var
}

func (d EnvDetector) Name() string  { return "env" }
func (d EnvDetector) Priority() int { return 100 }

func (d EnvDetector) Available() bool {
	v, ok := os.LookupEnv(d.variable())
	return ok && strings.TrimSpace(v) != ""
}

func (d EnvDetector) Detect(_ context.Context) (themeprefs.Scheme, error) {
	return themeprefs.ParseScheme(os.Getenv(d.variable()))
}

// DarwinDetector reads AppleInterfaceStyle on macOS. The key is absent in light mode.
type DarwinDetector struct{}

func (DarwinDetector) Name() string    { return "darwin" }
func (DarwinDetector) Priority() int   { return 20 }
func (DarwinDetector) Available() bool { return goos == "darwin" }

func (DarwinDetector) Detect(ctx context.Context) (themeprefs.Scheme, error) {
	out, err := runCommand(ctx, "defaults", "read", "-g", "AppleInterfaceStyle")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return themeprefs.SchemeLight, nil
	}
	if strings.EqualFold(strings.TrimSpace(out), "dark") {
		return themeprefs.SchemeDark, nil
	}
	return themeprefs.SchemeLight, nil
}

// Namespace and key of the colour scheme in the XDG desktop portal settings.
const (
	PortalNamespace = "org.freedesktop.appearance"
	PortalKey       = "color-scheme"
)

// PortalDetector reads the colour scheme from the XDG desktop portal over D-Bus.
// It needs a running portal backend.
type PortalDetector struct{}

func (PortalDetector) Name() string  { return "portal" }
func (PortalDetector) Priority() int { return 15 }

func (PortalDetector) Available() bool {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return true
	}
	return false
}

func (PortalDetector) Detect(ctx context.Context) (themeprefs.Scheme, error) {
	type result struct {
		value any
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := readPortalKey(PortalNamespace, PortalKey)
		ch <- result{v, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if res.err != nil {
		return "", fmt.Errorf("%w: portal: %v", ErrUndetected, res.err)
	}

	value, ok := res.value.(uint32)
	if !ok {
		return "", fmt.Errorf("%w: portal: unexpected value %v (%T)", ErrUndetected, res.value, res.value)
	}
	// 0 no preference, 1 prefer dark, 2 prefer light.
	switch value {
	case 1:
		return themeprefs.SchemeDark, nil
	case 2:
		return themeprefs.SchemeLight, nil
	}
	return "", fmt.Errorf("%w: portal: no preference", ErrUndetected)
}

// GSettingsDetector reads the GNOME color-scheme setting.
type GSettingsDetector struct{}

func (GSettingsDetector) Name() string  { return "gsettings" }
func (GSettingsDetector) Priority() int { return 10 }

func (GSettingsDetector) Available() bool {
	_, err := lookPath("gsettings")
	return err == nil
}

func (GSettingsDetector) Detect(ctx context.Context) (themeprefs.Scheme, error) {
	out, err := runCommand(ctx, "gsettings", "get", "org.gnome.desktop.interface", "color-scheme")
	if err != nil {
		return "", fmt.Errorf("%w: gsettings: %v", ErrUndetected, err)
	}
	switch strings.Trim(strings.TrimSpace(out), "'") {
	case "prefer-dark":
		return themeprefs.SchemeDark, nil
	case "prefer-light", "default":
		return themeprefs.SchemeLight, nil
	}
	return "", fmt.Errorf("%w: gsettings: unexpected value %q", ErrUndetected, out)
}
