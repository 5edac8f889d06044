package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"csv", "xml"} {
		t.Run(format, func(t *testing.T) {
			src := newTestEnv(t)
			src.mustRun(t, createArgs("Ann", "Lee", "06/15/1990")...)
			src.mustRun(t, createArgs("Bob", "Stone", "01/02/1985")...)
			src.mustRun(t, "remove", "1")

			file := filepath.Join(t.TempDir(), "records."+format)
			out := src.mustRun(t, "export", "--file", file)
			if !strings.Contains(out, "exported to file "+file+" (1 record(s))") {
				t.Errorf("export output = %q", out)
			}

			dst := newTestEnv(t)
			out = dst.mustRun(t, "import", file)
			if !strings.Contains(out, "1 record(s) were imported") {
				t.Errorf("import output = %q", out)
			}

			// The imported record keeps its original id.
			if out := dst.mustRun(t, "get", "2"); !strings.Contains(out, "Bob") {
				t.Errorf("get 2 after import = %q", out)
			}
		})
	}
}

func TestExport_Stdout(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, createArgs("Ann", "Lee", "06/15/1990")...)

	out := env.mustRun(t, "export", "--format", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("export lines = %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Ann") {
		t.Errorf("export row = %q", lines[1])
	}

	out = env.mustRun(t, "export", "--format", "xml")
	if !strings.Contains(out, "<records") {
		t.Errorf("xml export = %q", out)
	}

	if _, err := env.run(t, "export", "--format", "json"); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("export json error = %v", err)
	}
}

func TestImport_Rejections(t *testing.T) {
	env := newTestEnv(t)

	src := newTestEnv(t)
	src.mustRun(t, createArgs("Ann", "Lee", "06/15/1990")...)
	file := filepath.Join(t.TempDir(), "good.csv")
	src.mustRun(t, "export", "--file", file)

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Duplicate the row under a new id with an invalid first name.
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	bad := strings.Replace(strings.Replace(lines[1], "1,", "5,", 1), "Ann", "A", 1)
	mixed := filepath.Join(t.TempDir(), "mixed.txt")
	if err := os.WriteFile(mixed, []byte(lines[0]+"\n"+lines[1]+"\n"+bad+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := env.run(t, "import", mixed); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("import without known extension error = %v", err)
	}

	out := env.mustRun(t, "import", "--format", "csv", mixed)
	for _, want := range []string{"1 record(s) were imported", "1 record(s) were rejected", "first name length"} {
		if !strings.Contains(out, want) {
			t.Errorf("import output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "-o", "yaml", "import", "--format", "csv", mixed)
	if !strings.Contains(out, "accepted: 1") || !strings.Contains(out, "rejected: 1") {
		t.Errorf("yaml import output:\n%s", out)
	}

	if _, err := env.run(t, "import", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("import of a missing file should fail")
	}
}
