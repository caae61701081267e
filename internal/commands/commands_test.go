package commands

import (
	"flag"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T) (*Registry, *[]string) {
	t.Helper()
	reg := NewRegistry()
	var calls []string
	add := func(name, desc string) {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		reg.Register(name, desc, fs, func(args []string) error {
			calls = append(calls, name+" "+strings.Join(args, " "))
			return nil
		})
	}
	add("spin", "start a draw")
	add("mode", "cycle or set the mode")
	return reg, &calls
}

func TestExecuteDispatches(t *testing.T) {
	reg, calls := newTestRegistry(t)
	if err := reg.Execute("spin"); err != nil {
		t.Fatalf("Execute(spin) = %v", err)
	}
	if err := reg.Execute("mode squad"); err != nil {
		t.Fatalf("Execute(mode squad) = %v", err)
	}
	want := []string{"spin ", "mode squad"}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %v, want %v", *calls, want)
	}
	for i := range want {
		if (*calls)[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, (*calls)[i], want[i])
		}
	}
}

func TestExecuteUnknownAndEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)
	if err := reg.Execute("warp"); err == nil {
		t.Error("unknown command did not error")
	}
	if err := reg.Execute("   "); err == nil {
		t.Error("blank line did not error")
	}
}

func TestHelpListsAllSorted(t *testing.T) {
	reg, _ := newTestRegistry(t)
	lines := reg.Help()
	if len(lines) != 2 {
		t.Fatalf("Help() returned %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "mode") || !strings.HasPrefix(lines[1], "spin") {
		t.Errorf("Help() not sorted: %v", lines)
	}
	if !strings.Contains(lines[1], "start a draw") {
		t.Errorf("Help() missing description: %q", lines[1])
	}
}
