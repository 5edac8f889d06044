package command

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/server/httpserver/handler"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/memory"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
)

// testEnv is a real server on httptest plus an isolated CLI config.
type testEnv struct {
	server     *httptest.Server
	svc        *service.RecordService
	dir        string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := service.NewRecordService(memory.New(), nil, service.WithLogger(logger.Discard()))

	dir := t.TempDir()
	cfg := storage.DefaultConfig(filepath.Join(dir, "snapshots"))
	cfg.Logger = logger.Discard()
	engine, err := storage.New(cfg, svc)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	srv := httptest.NewServer(handler.New(handler.Config{
		Cabinet:   svc,
		Snapshots: engine,
		Logger:    logger.Discard(),
		Version:   "test",
	}))
	t.Cleanup(srv.Close)

	configPath := filepath.Join(dir, "cli.yaml")
	content := fmt.Sprintf("default_server: %s\nhistory_file: %s\n", srv.URL, filepath.Join(dir, "history"))
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("write cli config: %v", err)
	}

	return &testEnv{server: srv, svc: svc, dir: dir, configPath: configPath}
}

// run executes one CLI invocation and returns its stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *testEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(input)

	full := append([]string{appName, "--config", e.configPath}, args...)
	err := app.RunContext(context.Background(), full)
	return stdout.String(), err
}

// mustRun fails the test when the command errors.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\noutput: %s", strings.Join(args, " "), err, out)
	}
	return out
}

func createArgs(first, last, dob string) []string {
	return []string{
		"create",
		"--first-name", first,
		"--last-name", last,
		"--date-of-birth", dob,
		"--sex", "F",
		"--reviews", "4",
		"--salary", "1500.25",
	}
}
