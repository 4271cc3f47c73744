package ash

import (
	"errors"
	"testing"
)

func tokenKinds(tokens []token) []tokenKind {
	kinds := make([]tokenKind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.kind
	}
	return kinds
}

func TestLexWords(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		words []string
	}{
		{"plain", "echo hello", []string{"echo", "hello"}},
		{"collapsed_whitespace", "a  \t b", []string{"a", "b"}},
		{"single_quotes_stripped", "echo 'a b'", []string{"echo", "a b"}},
		{"double_quotes_stripped", `echo "a b"`, []string{"echo", "a b"}},
		{"adjacent_quoted_segments", `a'b'"c"`, []string{"abc"}},
		{"escape", `a\ b`, []string{"a b"}},
		{"empty_single", "''", []string{""}},
		{"empty_double", `""`, []string{""}},
		{"quote_hides_operator", "'a|b'", []string{"a|b"}},
		{"trailing_backslash", `a\`, []string{`a\`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex(tt.line)
			if err != nil {
				t.Fatalf("lex(%q): %v", tt.line, err)
			}
			if len(tokens) != len(tt.words) {
				t.Fatalf("lex(%q) = %d tokens, want %d", tt.line, len(tokens), len(tt.words))
			}
			for i, w := range tt.words {
				if tokens[i].kind != tokWord {
					t.Errorf("token %d kind = %v, want word", i, tokens[i].kind)
				}
				if tokens[i].text != w {
					t.Errorf("token %d = %q, want %q", i, tokens[i].text, w)
				}
			}
		})
	}
}

func TestLexOperators(t *testing.T) {
	tests := []struct {
		line  string
		kinds []tokenKind
	}{
		{"a | b", []tokenKind{tokWord, tokPipe, tokWord}},
		{"a < in > out", []tokenKind{tokWord, tokLess, tokWord, tokGreat, tokWord}},
		{"a >> out", []tokenKind{tokWord, tokDGreat, tokWord}},
		{"a &", []tokenKind{tokWord, tokAmp}},
		{"! a", []tokenKind{tokBang, tokWord}},
		{"a ; b", []tokenKind{tokWord, tokSemi, tokWord}},
		{"a 2> err", []tokenKind{tokWord, tok2Great, tokWord}},
		{"a 2>> err", []tokenKind{tokWord, tok2DGreat, tokWord}},
	}
	for _, tt := range tests {
		tokens, err := lex(tt.line)
		if err != nil {
			t.Fatalf("lex(%q): %v", tt.line, err)
		}
		got := tokenKinds(tokens)
		if len(got) != len(tt.kinds) {
			t.Fatalf("lex(%q) kinds = %v, want %v", tt.line, got, tt.kinds)
		}
		for i := range got {
			if got[i] != tt.kinds[i] {
				t.Fatalf("lex(%q) kinds = %v, want %v", tt.line, got, tt.kinds)
			}
		}
	}
}

func TestLexQuotingProvenance(t *testing.T) {
	tokens, err := lex(`a'b'"c"`)
	if err != nil {
		t.Fatal(err)
	}
	want := []quoteKind{qUnquoted, qSingle, qDouble}
	if len(tokens) != 1 || len(tokens[0].quoted) != 3 {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
	for i, q := range want {
		if tokens[0].quoted[i] != q {
			t.Errorf("byte %d provenance = %v, want %v", i, tokens[0].quoted[i], q)
		}
	}
}

func TestLexUnterminatedQuote(t *testing.T) {
	for _, line := range []string{"'open", `"open`, `echo 'a b`} {
		if _, err := lex(line); !errors.Is(err, ErrUnterminatedQuote) {
			t.Errorf("lex(%q) err = %v, want ErrUnterminatedQuote", line, err)
		}
	}
}

func TestLexRoundTrip(t *testing.T) {
	// For every unquoted word without operator characters, lexing yields
	// that single word back.
	for _, w := range []string{"hello", "a=b=c", "path/with/slash", "x.y.z", "-flag"} {
		tokens, err := lex(w)
		if err != nil || len(tokens) != 1 || tokens[0].text != w {
			t.Errorf("lex(%q) = %+v, %v", w, tokens, err)
		}
	}
	// Single-quoting makes any content one literal word.
	for _, s := range []string{"$X", "a | b", "* ? [", "  spaced  "} {
		tokens, err := lex("'" + s + "'")
		if err != nil || len(tokens) != 1 || tokens[0].text != s {
			t.Errorf("lex('%s') = %+v, %v", s, tokens, err)
		}
	}
}
