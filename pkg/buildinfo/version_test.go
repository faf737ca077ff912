package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	for _, want := range []string{Version, Commit, Date} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "\n") {
		t.Errorf("String() should be a single line: %q", got)
	}
}

func TestTemplate(t *testing.T) {
	got := Template("archdiagram")
	if !strings.HasPrefix(got, "archdiagram "+Version+"\n") {
		t.Errorf("Template() = %q", got)
	}
}
