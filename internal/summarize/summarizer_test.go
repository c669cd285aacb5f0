package summarize

import (
	"context"
	"strings"
	"testing"

	"wikibrief/internal/config"
)

func TestParsePair(t *testing.T) {
	pair, err := parsePair(`{"advanced": "Dense technical prose.", "basic": "Simple words."}`)
	if err != nil {
		t.Fatalf("parsePair failed: %v", err)
	}
	if pair.Advanced != "Dense technical prose." {
		t.Errorf("Unexpected advanced tier: %q", pair.Advanced)
	}
	if pair.Basic != "Simple words." {
		t.Errorf("Unexpected basic tier: %q", pair.Basic)
	}
}

func TestParsePair_InvalidJSON(t *testing.T) {
	if _, err := parsePair("Here is your summary: {"); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestParsePair_MissingTiers(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing advanced", `{"basic": "Simple words."}`},
		{"missing basic", `{"advanced": "Dense prose."}`},
		{"both empty", `{"advanced": "", "basic": ""}`},
		{"empty object", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parsePair(tc.raw); err == nil {
				t.Errorf("Expected error for %s", tc.name)
			}
		})
	}
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := buildSummaryPrompt("Paris", "Paris is the capital of France.")

	if !strings.Contains(prompt, "Article Title: Paris") {
		t.Error("Prompt must carry the article title")
	}
	if !strings.Contains(prompt, "Paris is the capital of France.") {
		t.Error("Prompt must carry the article text")
	}
	for _, field := range []string{`"advanced"`, `"basic"`} {
		if !strings.Contains(prompt, field) {
			t.Errorf("Prompt must request the %s field", field)
		}
	}
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.AI{Provider: "anthropic"})
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
}
