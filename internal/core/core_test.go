package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Paris", "paris"},
		{"  Paris  ", "paris"},
		{"PARIS", "paris"},
		{"capital of France", "capital of france"},
		{"   ", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisambiguationError(t *testing.T) {
	err := &DisambiguationError{Title: "Mercury", Options: []string{"Mercury (planet)", "Mercury (element)"}}

	if !strings.Contains(err.Error(), "Mercury") {
		t.Errorf("Error message must name the ambiguous title: %q", err.Error())
	}

	var disambig *DisambiguationError
	wrapped := fmt.Errorf("resolve failed: %w", err)
	if !errors.As(wrapped, &disambig) {
		t.Error("DisambiguationError must survive wrapping")
	}
	if len(disambig.Options) != 2 {
		t.Errorf("Options lost through wrapping: %v", disambig.Options)
	}
}

func TestSourceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &SourceError{Op: "search", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("SourceError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "search") {
		t.Errorf("Error message must name the operation: %q", err.Error())
	}
}

func TestSummarizerError_Unwrap(t *testing.T) {
	cause := errors.New("model unavailable")
	err := &SummarizerError{Title: "Paris", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("SummarizerError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "Paris") {
		t.Errorf("Error message must name the article: %q", err.Error())
	}
}
