package ash

import (
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// paramLookup resolves a parameter name to a value, used by both the
// expander and anything needing ${NAME}/$NAME semantics.
type paramLookup func(name string) (string, bool)

// expandWord runs the three expansion stages (tilde, then parameter,
// then pathname) over one raw word and returns the resulting
// field(s). Single-quoted bytes are never expanded; double-quoted bytes
// only undergo parameter expansion; glob expansion only applies to
// unquoted bytes of the result.
func expandWord(w rawWord, lookup paramLookup) []string {
	text, quoted := expandTilde(w.text, w.quoted, lookup)
	text, quoted = expandParams(text, quoted, lookup)
	return expandGlob(text, quoted)
}

// expandTilde performs tilde expansion. Only a leading, unquoted '~'
// qualifies.
func expandTilde(text string, quoted []quoteKind, lookup paramLookup) (string, []quoteKind) {
	if text == "" || text[0] != '~' || (len(quoted) > 0 && quoted[0] != qUnquoted) {
		return text, quoted
	}
	end := 1
	for end < len(text) && text[end] != '/' {
		end++
	}
	name := text[1:end]
	var home string
	var ok bool
	if name == "" {
		home, ok = lookup("HOME")
		if !ok {
			if u, err := user.Current(); err == nil {
				home, ok = u.HomeDir, true
			}
		}
	} else {
		if u, err := user.Lookup(name); err == nil {
			home, ok = u.HomeDir, true
		}
	}
	if !ok {
		return text, quoted
	}
	rest := text[end:]
	newText := home + rest
	newQuoted := make([]quoteKind, len(newText))
	// the substituted home directory is itself unquoted text.
	for i := range newQuoted[:min(len(home), len(newQuoted))] {
		newQuoted[i] = qUnquoted
	}
	copy(newQuoted[len(home):], quoted[end:])
	return newText, newQuoted
}

// expandParams performs $NAME / ${NAME} parameter expansion on unquoted
// and double-quoted bytes. Single-quoted bytes pass
// through untouched.
func expandParams(text string, quoted []quoteKind, lookup paramLookup) (string, []quoteKind) {
	var out strings.Builder
	var outQuoted []quoteKind
	i := 0
	for i < len(text) {
		q := qUnquoted
		if i < len(quoted) {
			q = quoted[i]
		}
		if text[i] != '$' || q == qSingle {
			out.WriteByte(text[i])
			outQuoted = append(outQuoted, q)
			i++
			continue
		}
		_, consumed, val, found := readParam(text[i:], lookup)
		if consumed == 0 {
			out.WriteByte(text[i])
			outQuoted = append(outQuoted, q)
			i++
			continue
		}
		if found {
			out.WriteString(val)
			for j := 0; j < len(val); j++ {
				outQuoted = append(outQuoted, q)
			}
		}
		i += consumed
	}
	return out.String(), outQuoted
}

// readParam reads a $NAME, ${NAME}, ${#NAME} or single-character
// parameter starting at s[0]=='$' and returns how many bytes of s it
// consumed, 0 if s does not start a valid parameter reference.
func readParam(s string, lookup paramLookup) (name string, consumed int, value string, found bool) {
	if len(s) < 2 {
		return "", 0, "", false
	}
	if s[1] == '{' {
		end := strings.IndexByte(s[2:], '}')
		if end < 0 {
			return "", 0, "", false
		}
		inner := s[2 : 2+end]
		lengthOf := false
		if strings.HasPrefix(inner, "#") {
			lengthOf = true
			inner = inner[1:]
		}
		// ${NAME:-default} and ${#NAME} are still pure parameter
		// expansion, not control flow.
		var def string
		hasDefault := false
		if idx := strings.Index(inner, ":-"); idx >= 0 {
			def = inner[idx+2:]
			inner = inner[:idx]
			hasDefault = true
		}
		v, ok := lookup(inner)
		if lengthOf {
			return inner, 3 + end, strconv.Itoa(len(v)), true
		}
		if !ok || v == "" {
			if hasDefault {
				return inner, 3 + end, def, true
			}
		}
		return inner, 3 + end, v, true
	}
	c := s[1]
	switch c {
	case '?', '$', '!':
		v, ok := lookup(string(c))
		return string(c), 2, v, ok
	}
	isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
	if !isAlpha {
		return "", 0, "", false
	}
	j := 1
	for j < len(s) {
		c := s[j]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			j++
			continue
		}
		break
	}
	name = s[1:j]
	v, ok := lookup(name)
	return name, j, v, ok
}

// expandGlob applies pathname expansion to the unquoted
// portions of text, returning one or more result words. Quoted text
// never participates in globbing; if text has no unquoted glob
// metacharacters it is returned as a single field unchanged.
func expandGlob(text string, quoted []quoteKind) []string {
	if !hasUnquotedGlobChar(text, quoted) {
		return []string{text}
	}
	dir, pattern := filepath.Split(escapeQuotedGlobChars(text, quoted))
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{text}
	}
	var matches []string
	hiddenOK := strings.HasPrefix(pattern, ".")
	for _, e := range entries {
		name := e.Name()
		if !hiddenOK && strings.HasPrefix(name, ".") {
			continue
		}
		if globMatch(pattern, name) {
			if dir == "." && !strings.HasPrefix(text, "./") {
				matches = append(matches, name)
			} else {
				matches = append(matches, filepath.Join(dir, name))
			}
		}
	}
	if len(matches) == 0 {
		// NOCHECK: retain the unexpanded pattern.
		return []string{text}
	}
	sort.Strings(matches)
	return matches
}

// escapeQuotedGlobChars backslash-protects glob metacharacters that came
// from quoted text, so only the unquoted portions of a word pattern-match.
func escapeQuotedGlobChars(text string, quoted []quoteKind) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		q := qUnquoted
		if i < len(quoted) {
			q = quoted[i]
		}
		switch text[i] {
		case '*', '?', '[', '\\':
			if q != qUnquoted || text[i] == '\\' {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

func hasUnquotedGlobChar(text string, quoted []quoteKind) bool {
	for i := 0; i < len(text); i++ {
		q := qUnquoted
		if i < len(quoted) {
			q = quoted[i]
		}
		if q != qUnquoted {
			continue
		}
		switch text[i] {
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// globMatch implements *, ?, [set] (with optional leading ! negation)
// against name, where * excludes '/' and matches the empty string.
func globMatch(pattern, name string) bool {
	return globMatchAt(pattern, name)
}

func globMatchAt(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '\\':
			if len(pattern) < 2 || len(name) == 0 || pattern[1] != name[0] {
				return false
			}
			pattern, name = pattern[2:], name[1:]
		case '*':
			// try every possible split point.
			for i := 0; i <= len(name); i++ {
				if globMatchAt(pattern[1:], name[i:]) {
					return true
				}
				if i < len(name) && name[i] == '/' {
					return false
				}
			}
			return false
		case '?':
			if len(name) == 0 || name[0] == '/' {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		case '[':
			end := strings.IndexByte(pattern, ']')
			if end < 0 || len(name) == 0 {
				return false
			}
			set := pattern[1:end]
			negate := false
			if strings.HasPrefix(set, "!") {
				negate = true
				set = set[1:]
			}
			inSet := strings.IndexByte(set, name[0]) >= 0
			if inSet == negate {
				return false
			}
			pattern, name = pattern[end+1:], name[1:]
		default:
			if len(name) == 0 || pattern[0] != name[0] {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		}
	}
	return len(name) == 0
}
