package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"waypoint/internal/config"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/spf13/cobra"
)

// consoleClient drives a running node over its HTTP API. Console edits land
// in that node's caches and reach peers through its broadcaster.
type consoleClient struct {
	base string
	http *client.Client
}

func newConsoleClient(base string) (*consoleClient, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(3*time.Second),
		client.WithClientReadTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	return &consoleClient{base: base, http: c}, nil
}

// apiError carries the server's error body.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *consoleClient) do(ctx context.Context, method, path string, in, out any) error {
	req := protocol.AcquireRequest()
	defer protocol.ReleaseRequest(req)
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(method)
	req.SetRequestURI(c.base + path)
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		req.SetBody(body)
		req.Header.SetContentTypeBytes([]byte("application/json"))
	}
	if err := c.http.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("%s %s%s: %w", method, c.base, path, err)
	}
	if resp.StatusCode() >= 300 {
		var body struct {
			Error apiError `json:"error"`
		}
		_ = json.Unmarshal(resp.Body(), &body)
		body.Error.Status = resp.StatusCode()
		return &body.Error
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// serverURL picks the node the console talks to: the --server flag when
// given, otherwise the configured listen address on loopback.
func serverURL(flag string, cfg config.Config) string {
	base := strings.TrimSpace(flag)
	if base == "" {
		base = cfg.Server.Addr
		if strings.HasPrefix(base, ":") {
			base = "127.0.0.1" + base
		}
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return strings.TrimRight(base, "/")
}

func withConsole(cmd *cobra.Command, configPath func() string, server *string, fn func(*consoleClient) error) error {
	path := configPath()
	cfg, wrote, err := config.Load(path)
	if err != nil {
		return err
	}
	if wrote {
		newLogger(cmd.ErrOrStderr(), cfg.Log.Level).Info("wrote default config", "path", path)
	}
	c, err := newConsoleClient(serverURL(*server, cfg))
	if err != nil {
		return err
	}
	return fn(c)
}
