package ash

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors reported to the user; each leaves the REPL running.
var (
	ErrEmptyStage      = errors.New("empty command")
	ErrMissingFilename = errors.New("missing filename after redirection")
	ErrAmpNotFinal     = errors.New("'&' not in final position")
)

type redirMode int

const (
	redirRead redirMode = iota
	redirWriteTrunc
	redirWriteAppend
)

// redirect is a (target fd, source word, mode) tuple. The
// source word is kept unexpanded here; expansion happens once, in the
// shell, when the executor prepares the stage.
type redirect struct {
	fd   int
	mode redirMode
	word rawWord
}

// assignment is a NAME=WORD pair preceding a stage's command word.
type assignment struct {
	name string
	word rawWord
}

// rawWord carries a word's text together with per-byte quoting
// provenance, produced by the lexer and consumed by the expander.
type rawWord struct {
	text   string
	quoted []quoteKind
}

// stage is one command in a pipeline: assignments, argv words, and
// redirections, in the order the parser encountered them.
type stage struct {
	assigns []assignment
	argv    []rawWord
	redirs  []redirect
}

// pipeline is the full parsed plan: an ordered list of
// stages plus the negate/background flags.
type pipeline struct {
	stages     []stage
	negate     bool
	background bool
}

// parse consumes a lexed token stream and produces a pipeline plan.
// Grammar:
//
//	pipeline   := [ "!" ] stage ( "|" stage )* [ "&" ]
//	stage      := assignment+ | assignment* ( word | redirect )+
//	assignment := NAME "=" WORD
//	redirect   := ( "<" | ">" | ">>" | "2>" | "2>>" ) word
func parse(tokens []token) (pipeline, error) {
	var p pipeline
	pos := 0

	if pos < len(tokens) && tokens[pos].kind == tokBang {
		p.negate = true
		pos++
	}

	for {
		st, next, err := parseStage(tokens, pos)
		if err != nil {
			return pipeline{}, err
		}
		p.stages = append(p.stages, st)
		pos = next

		if pos < len(tokens) && tokens[pos].kind == tokPipe {
			pos++
			if pos >= len(tokens) {
				return pipeline{}, fmt.Errorf("%w: trailing '|'", ErrEmptyStage)
			}
			continue
		}
		break
	}

	if pos < len(tokens) && tokens[pos].kind == tokAmp {
		p.background = true
		pos++
	}
	if pos < len(tokens) {
		if p.background || tokens[pos].kind == tokAmp {
			return pipeline{}, ErrAmpNotFinal
		}
		return pipeline{}, fmt.Errorf("unexpected token %q", tokens[pos].text)
	}
	return p, nil
}

// parseStage parses one stage starting at pos, stopping at a pipe, amp,
// ';', '!', or end of input. Returns the index of the first unconsumed token.
func parseStage(tokens []token, pos int) (stage, int, error) {
	var st stage
	sawWord := false

	for pos < len(tokens) {
		t := tokens[pos]
		switch t.kind {
		case tokPipe, tokAmp:
			goto done
		case tokLess:
			fd, word, next, err := parseRedirectTarget(tokens, pos+1, 0)
			if err != nil {
				return stage{}, 0, err
			}
			st.redirs = append(st.redirs, redirect{fd: fd, mode: redirRead, word: word})
			pos = next
		case tokGreat:
			fd, word, next, err := parseRedirectTarget(tokens, pos+1, 1)
			if err != nil {
				return stage{}, 0, err
			}
			st.redirs = append(st.redirs, redirect{fd: fd, mode: redirWriteTrunc, word: word})
			pos = next
		case tokDGreat:
			fd, word, next, err := parseRedirectTarget(tokens, pos+1, 1)
			if err != nil {
				return stage{}, 0, err
			}
			st.redirs = append(st.redirs, redirect{fd: fd, mode: redirWriteAppend, word: word})
			pos = next
		case tok2Great:
			fd, word, next, err := parseRedirectTarget(tokens, pos+1, 2)
			if err != nil {
				return stage{}, 0, err
			}
			st.redirs = append(st.redirs, redirect{fd: fd, mode: redirWriteTrunc, word: word})
			pos = next
		case tok2DGreat:
			fd, word, next, err := parseRedirectTarget(tokens, pos+1, 2)
			if err != nil {
				return stage{}, 0, err
			}
			st.redirs = append(st.redirs, redirect{fd: fd, mode: redirWriteAppend, word: word})
			pos = next
		case tokSemi, tokBang:
			goto done
		case tokWord:
			if !sawWord {
				if name, val, ok := splitAssignment(t.text, t.quoted); ok {
					st.assigns = append(st.assigns, assignment{name: name, word: val})
					pos++
					continue
				}
			}
			sawWord = true
			st.argv = append(st.argv, rawWord{text: t.text, quoted: t.quoted})
			pos++
		default:
			pos++
		}
	}
done:
	if len(st.argv) == 0 && len(st.redirs) == 0 && len(st.assigns) == 0 {
		return stage{}, 0, ErrEmptyStage
	}
	return st, pos, nil
}

// parseRedirectTarget consumes the filename word following a redirection
// operator and returns the target fd (defaultFD unless the operator was
// fd-prefixed) and the unexpanded filename word.
func parseRedirectTarget(tokens []token, pos, defaultFD int) (int, rawWord, int, error) {
	if pos >= len(tokens) || tokens[pos].kind != tokWord {
		return 0, rawWord{}, 0, fmt.Errorf("%w", ErrMissingFilename)
	}
	t := tokens[pos]
	return defaultFD, rawWord{text: t.text, quoted: t.quoted}, pos + 1, nil
}

// splitAssignment recognizes NAME=WORD at the head of a stage, only when
// every byte up to and including the '=' is unquoted (a quoted '=' is
// just part of a literal word, not an assignment).
func splitAssignment(text string, quoted []quoteKind) (string, rawWord, bool) {
	eq := strings.IndexByte(text, '=')
	if eq <= 0 {
		return "", rawWord{}, false
	}
	for i := 0; i <= eq; i++ {
		if i < len(quoted) && quoted[i] != qUnquoted {
			return "", rawWord{}, false
		}
	}
	name := text[:eq]
	if !isValidName(name) {
		return "", rawWord{}, false
	}
	valQuoted := quoted[eq+1:]
	return name, rawWord{text: text[eq+1:], quoted: valQuoted}, true
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isDigit := c >= '0' && c <= '9'
		if i == 0 {
			if !isAlpha {
				return false
			}
		} else if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}
