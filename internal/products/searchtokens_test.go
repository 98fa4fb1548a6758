package products

import (
	"reflect"
	"testing"
)

func contains(tokens []string, want string) bool {
	for _, token := range tokens {
		if token == want {
			return true
		}
	}
	return false
}

func TestGenerateSearchTokensMilkAcme(t *testing.T) {
	tokens := GenerateSearchTokens("Milk", "Acme")

	for _, want := range []string{"milk", "mil", "ilk", "acme", "acm", "cme"} {
		if !contains(tokens, want) {
			t.Fatalf("expected token %q in %v", want, tokens)
		}
	}
}

func TestGenerateSearchTokensNoShortFragments(t *testing.T) {
	tokens := GenerateSearchTokens("Whole Milk Gallon", "Acme Farms")
	for _, token := range tokens {
		if len(token) < 2 {
			t.Fatalf("token %q shorter than 2 chars", token)
		}
	}
}

func TestGenerateSearchTokensDeterministic(t *testing.T) {
	a := GenerateSearchTokens("Greek Yogurt", "Olympus")
	b := GenerateSearchTokens("Greek Yogurt", "Olympus")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input produced different tokens:\n%v\n%v", a, b)
	}

	// sorted output
	for i := 1; i < len(a); i++ {
		if a[i-1] >= a[i] {
			t.Fatalf("tokens not sorted or not unique at %d: %v", i, a)
		}
	}
}

func TestGenerateSearchTokensStripsPunctuation(t *testing.T) {
	tokens := GenerateSearchTokens("Half & Half!", "")
	if contains(tokens, "&") {
		t.Fatalf("punctuation leaked into tokens: %v", tokens)
	}
	if !contains(tokens, "half") {
		t.Fatalf("expected token half in %v", tokens)
	}
}

func TestGenerateSearchTokensEmpty(t *testing.T) {
	if tokens := GenerateSearchTokens("", ""); len(tokens) != 0 {
		t.Fatalf("expected empty tokens, got %v", tokens)
	}
	if tokens := GenerateSearchTokens("!!", "--"); len(tokens) != 0 {
		t.Fatalf("expected empty tokens for pure punctuation, got %v", tokens)
	}
}

func TestGenerateSearchTokensKeepsShortWholeWords(t *testing.T) {
	tokens := GenerateSearchTokens("2% Milk 12 oz", "")
	if !contains(tokens, "oz") {
		t.Fatalf("expected two-char word kept whole: %v", tokens)
	}
	if !contains(tokens, "12") {
		t.Fatalf("expected numeric word kept: %v", tokens)
	}
	if contains(tokens, "o") || contains(tokens, "z") {
		t.Fatalf("single chars must not appear: %v", tokens)
	}
}

func TestNormalizeQueryWords(t *testing.T) {
	words := NormalizeQueryWords("  MILK, acme! a ")
	if !reflect.DeepEqual(words, []string{"milk", "acme"}) {
		t.Fatalf("unexpected words %v", words)
	}
}
