package command

import (
	"strings"
	"testing"

	cliconfig "github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/config"
)

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, createArgs("Ann", "Lee", "06/15/1990")...)

	env.mustRun(t, "config", "alias", "local", env.server.URL)
	env.mustRun(t, "config", "set", "default-server", "http://127.0.0.1:1")
	env.mustRun(t, "config", "set", "default-output", "json")

	cfg, err := cliconfig.Load(env.configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultOutput != "json" || cfg.Servers["local"] != env.server.URL {
		t.Errorf("saved config = %+v", cfg)
	}

	// The default server is now unreachable; the alias still works.
	if _, err := env.run(t, "stat"); err == nil {
		t.Error("stat against the new default server should fail")
	}
	out := env.mustRun(t, "--server", "local", "stat")
	if !strings.Contains(out, `"count": 1`) {
		t.Errorf("stat via alias with json default = %q", out)
	}

	out = env.mustRun(t, "-o", "table", "config", "show")
	for _, want := range []string{"default_output", "json", "servers.local", env.server.URL} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	env.mustRun(t, "config", "alias", "local")
	cfg, err = cliconfig.Load(env.configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cfg.Servers["local"]; ok {
		t.Error("alias not removed")
	}

	for _, args := range [][]string{
		{"config", "set", "default-output", "xml"},
		{"config", "set", "colour", "on"},
		{"config", "set", "default-server"},
	} {
		if _, err := env.run(t, args...); err == nil {
			t.Errorf("%q should fail", args)
		}
	}
}
