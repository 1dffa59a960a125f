package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "snmptree-bridge ") {
		t.Errorf("String() = %q, want snmptree-bridge prefix", s)
	}
	if !strings.Contains(s, Version) {
		t.Errorf("String() = %q, missing version %q", s, Version)
	}
}
