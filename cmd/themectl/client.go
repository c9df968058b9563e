package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type themeState struct {
	Mode        string `json:"mode"`
	OSScheme    string `json:"os_scheme"`
	ColorScheme string `json:"color_scheme"`
	IsDark      bool   `json:"is_dark"`
	Ready       bool   `json:"ready"`
}

type paletteResult struct {
	ColorScheme string            `json:"color_scheme"`
	Variables   map[string]string `json:"variables"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

// client talks to the themeprefs HTTP API.
type client struct {
	base string
	user string
	http *http.Client
}

func (c *client) themeURL(suffix string) string {
	return strings.TrimRight(c.base, "/") + "/api/v1/users/" + url.PathEscape(c.user) + "/theme" + suffix
}

func (c *client) theme(ctx context.Context) (themeState, error) {
	var st themeState
	err := c.do(ctx, http.MethodGet, c.themeURL(""), nil, &st)
	return st, err
}

func (c *client) setMode(ctx context.Context, mode string) (themeState, error) {
	var st themeState
	err := c.do(ctx, http.MethodPut, c.themeURL(""), map[string]string{"mode": mode}, &st)
	return st, err
}

func (c *client) setOSScheme(ctx context.Context, scheme string) (themeState, error) {
	var st themeState
	err := c.do(ctx, http.MethodPut, c.themeURL("/os-scheme"), map[string]string{"scheme": scheme}, &st)
	return st, err
}

func (c *client) toggle(ctx context.Context) (themeState, error) {
	var st themeState
	err := c.do(ctx, http.MethodPost, c.themeURL("/toggle"), nil, &st)
	return st, err
}

func (c *client) palette(ctx context.Context) (paletteResult, error) {
	var p paletteResult
	err := c.do(ctx, http.MethodGet, c.themeURL("/palette"), nil, &p)
	return p, err
}

func (c *client) namedPalette(ctx context.Context, scheme string) (paletteResult, error) {
	var p paletteResult
	u := strings.TrimRight(c.base, "/") + "/api/v1/palettes/" + url.PathEscape(scheme)
	err := c.do(ctx, http.MethodGet, u, nil, &p)
	return p, err
}

func (c *client) do(ctx context.Context, method, u string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error.Message == "" {
			return fmt.Errorf("server returned %s", resp.Status)
		}
		if apiErr.Error.Details != "" {
			return fmt.Errorf("%s: %s", apiErr.Error.Message, apiErr.Error.Details)
		}
		return fmt.Errorf("%s", apiErr.Error.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
