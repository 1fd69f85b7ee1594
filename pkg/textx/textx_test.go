// Package textx contains tests for the text utilities.
package textx

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	in := "he\x00llo\nwo\x7frld\t!"
	got := SanitizeText(in)
	if got != "hello\nworld\t!" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 600)
	if got := Truncate(long, 500); len(got) != 500 {
		t.Fatalf("want 500 bytes, got %d", len(got))
	}
	if got := Truncate("short", 500); got != "short" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := Truncate("x", 0); got != "x" {
		t.Fatalf("zero max should be a no-op, got %q", got)
	}
}
