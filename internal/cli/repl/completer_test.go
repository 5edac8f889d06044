package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter([]string{"find firstname", "find lastname", "find dateofbirth", "export", "stat"})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"find ", []string{"find dateofbirth", "find firstname", "find lastname"}},
		{"ex", []string{"exit", "export"}},
		{"hist", []string{"history"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_IncludesBuiltins(t *testing.T) {
	got := NewCompleter(nil).Complete("")
	want := []string{"exit", "history", "quit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Complete(\"\") = %q, want %q", got, want)
	}
}
