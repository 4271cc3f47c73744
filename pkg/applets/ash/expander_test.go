package ash

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testLookup(vars map[string]string) paramLookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func lexOneWord(t *testing.T, s string) rawWord {
	t.Helper()
	tokens, err := lex(s)
	if err != nil {
		t.Fatalf("lex(%q): %v", s, err)
	}
	if len(tokens) != 1 || tokens[0].kind != tokWord {
		t.Fatalf("lex(%q) = %+v, want one word", s, tokens)
	}
	return rawWord{text: tokens[0].text, quoted: tokens[0].quoted}
}

func TestExpandParams(t *testing.T) {
	vars := map[string]string{"X": "val", "HOME": "/h", "?": "1", "$": "42", "!": "99", "EMPTY": ""}
	tests := []struct {
		word string
		want []string
	}{
		{"$X", []string{"val"}},
		{"${X}", []string{"val"}},
		{"pre${X}post", []string{"prevalpost"}},
		{`"$X"`, []string{"val"}},
		{`'$X'`, []string{"$X"}},
		{`\$X`, []string{"$X"}},
		{"$UNDEFINED", []string{""}},
		{"$EMPTY", []string{""}},
		{"$?", []string{"1"}},
		{"$$", []string{"42"}},
		{"$!", []string{"99"}},
		{"${X:-fallback}", []string{"val"}},
		{"${UNDEFINED:-fallback}", []string{"fallback"}},
		{"${#X}", []string{"3"}},
		{"$", []string{"$"}},
		{"a$", []string{"a$"}},
	}
	for _, tt := range tests {
		w := lexOneWord(t, tt.word)
		got := expandWord(w, testLookup(vars))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("expand(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestExpandTilde(t *testing.T) {
	vars := map[string]string{"HOME": "/h"}
	tests := []struct {
		word string
		want string
	}{
		{"~", "/h"},
		{"~/sub", "/h/sub"},
		{`'~'`, "~"},
		{"a~", "a~"},
	}
	for _, tt := range tests {
		w := lexOneWord(t, tt.word)
		got := expandWord(w, testLookup(vars))
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("expand(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestExpandGlobSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt", "d.log", ".hidden.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	chdir(t, dir)

	w := lexOneWord(t, "*.txt")
	got := expandWord(w, testLookup(nil))
	want := []string{"a.txt", "b.txt", "c.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("glob = %q, want %q", got, want)
	}
}

func TestExpandGlobDotPrefix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".one", ".two", "plain"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	chdir(t, dir)

	got := expandWord(lexOneWord(t, ".*"), testLookup(nil))
	want := []string{".one", ".two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("glob = %q, want %q", got, want)
	}
}

func TestExpandGlobNocheck(t *testing.T) {
	chdir(t, t.TempDir())
	got := expandWord(lexOneWord(t, "*.nomatch"), testLookup(nil))
	if !reflect.DeepEqual(got, []string{"*.nomatch"}) {
		t.Errorf("glob = %q, want the literal pattern", got)
	}
}

func TestExpandGlobQuotedMetachars(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ab", "axb"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	chdir(t, dir)

	// The quoted star is literal; only the unquoted one globs.
	got := expandWord(lexOneWord(t, `'a'*`), testLookup(nil))
	want := []string{"ab", "axb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("glob = %q, want %q", got, want)
	}
	got = expandWord(lexOneWord(t, `a'*'`), testLookup(nil))
	if !reflect.DeepEqual(got, []string{"a*"}) {
		t.Errorf("glob = %q, want literal a*", got)
	}
}

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"a*c", "abc", true},
		{"a*c", "ac", true},
		{"a*c", "abd", false},
		{"?", "x", true},
		{"?", "", false},
		{"a?c", "abc", true},
		{"[abc]", "b", true},
		{"[abc]", "d", false},
		{"[!abc]", "d", true},
		{"[!abc]", "a", false},
		{"*.txt", "note.txt", true},
		{"*.txt", "note.log", false},
		{`\*`, "*", true},
		{`\*`, "x", false},
	}
	for _, tt := range tests {
		if got := globMatch(tt.pattern, tt.name); got != tt.want {
			t.Errorf("globMatch(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
