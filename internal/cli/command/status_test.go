package command

import (
	"encoding/pem"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/server/httpserver/handler"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/memory"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
)

func TestStatus_Unreachable(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "--server", "http://127.0.0.1:1", "status"); err == nil {
		t.Fatal("status against a closed port returned nil")
	}
}

func TestStatus_TLSWithCAFile(t *testing.T) {
	env := newTestEnv(t)
	svc := service.NewRecordService(memory.New(), nil, service.WithLogger(logger.Discard()))
	srv := httptest.NewTLSServer(handler.New(handler.Config{
		Cabinet: svc,
		Logger:  logger.Discard(),
		Version: "tls",
	}))
	t.Cleanup(srv.Close)

	caFile := filepath.Join(env.dir, "ca.pem")
	caPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, caPEM, 0600); err != nil {
		t.Fatalf("write ca file: %v", err)
	}

	if _, err := env.run(t, "--server", srv.URL, "status"); err == nil {
		t.Fatal("status without the CA succeeded")
	}

	out := env.mustRun(t, "--server", srv.URL, "--ca-file", caFile, "status")
	if !strings.Contains(out, "is healthy (version tls)") {
		t.Fatalf("status output = %q", out)
	}
}
