package repl

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func run(t *testing.T, input string, rec *recorder, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithInput(strings.NewReader(input)), WithOutput(&out)}, opts...)
	if err := New(rec.exec, opts...).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestREPL_Run_Exit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		t.Run(cmd, func(t *testing.T) {
			rec := &recorder{}
			run(t, cmd+"\nstat\n", rec)
			if len(rec.calls) != 0 {
				t.Errorf("commands after %s executed: %v", cmd, rec.calls)
			}
		})
	}
}

func TestREPL_Run_DispatchesArgs(t *testing.T) {
	rec := &recorder{}
	out := run(t, "  \nfind firstname \"Anna Maria\"\n\nstat", rec)

	want := [][]string{{"find", "firstname", "Anna Maria"}, {"stat"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %q, want %q", rec.calls, want)
	}
	if strings.Count(out, DefaultPrompt) != 4 {
		t.Errorf("prompt count = %d in %q", strings.Count(out, DefaultPrompt), out)
	}
}

func TestREPL_Run_ReportsErrors(t *testing.T) {
	rec := &recorder{err: errors.New("record 9 not found")}
	out := run(t, "get 9\n", rec)
	if !strings.Contains(out, "Error: record 9 not found") {
		t.Errorf("output = %q", out)
	}

	rec = &recorder{}
	out = run(t, "find firstname 'Ann\n", rec)
	if !strings.Contains(out, "Error: unterminated ' quote") {
		t.Errorf("output = %q", out)
	}
	if len(rec.calls) != 0 {
		t.Errorf("malformed line executed: %v", rec.calls)
	}
}

func TestREPL_Run_History(t *testing.T) {
	rec := &recorder{}
	h := NewHistory("")
	out := run(t, "list\nstat\nstat\nhistory\n", rec, WithHistory(h))

	if got := h.Entries(); !reflect.DeepEqual(got, []string{"list", "stat"}) {
		t.Errorf("history = %q", got)
	}
	if !strings.Contains(out, "   1  list") || !strings.Contains(out, "   2  stat") {
		t.Errorf("history output = %q", out)
	}
}

func TestREPL_Run_Completion(t *testing.T) {
	rec := &recorder{}
	c := NewCompleter([]string{"snapshot create", "snapshot list", "stat"})
	out := run(t, "snap?\n", rec, WithCompleter(c))

	if !strings.Contains(out, "snapshot create\nsnapshot list\n") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "stat\n") {
		t.Errorf("unexpected suggestion in %q", out)
	}
	if len(rec.calls) != 0 {
		t.Errorf("completion request executed: %v", rec.calls)
	}
}

func TestREPL_Run_CanceledContext(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(rec.exec, WithInput(strings.NewReader("stat\n")), WithOutput(&bytes.Buffer{}))
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"list", []string{"list"}, false},
		{"  find   lastname  Smith ", []string{"find", "lastname", "Smith"}, false},
		{`find firstname "Anna Maria"`, []string{"find", "firstname", "Anna Maria"}, false},
		{`create --first-name 'O"Neil'`, []string{"create", "--first-name", `O"Neil`}, false},
		{`import my\ file.csv`, []string{"import", "my file.csv"}, false},
		{`x ""`, []string{"x", ""}, false},
		{"", nil, false},
		{`find "open`, nil, true},
		{`trailing\`, nil, true},
	}

	for _, tt := range tests {
		got, err := SplitArgs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitArgs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
