package ash

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, line string) pipeline {
	t.Helper()
	tokens, err := lex(line)
	if err != nil {
		t.Fatalf("lex(%q): %v", line, err)
	}
	p, err := parse(tokens)
	if err != nil {
		t.Fatalf("parse(%q): %v", line, err)
	}
	return p
}

func parseErr(t *testing.T, line string) error {
	t.Helper()
	tokens, err := lex(line)
	if err != nil {
		t.Fatalf("lex(%q): %v", line, err)
	}
	_, err = parse(tokens)
	if err == nil {
		t.Fatalf("parse(%q) succeeded, want error", line)
	}
	return err
}

func TestParseStageCount(t *testing.T) {
	tests := []struct {
		line   string
		stages int
	}{
		{"a", 1},
		{"a | b", 2},
		{"a | b | c", 3},
		{"a b c | d e", 2},
	}
	for _, tt := range tests {
		p := mustParse(t, tt.line)
		if len(p.stages) != tt.stages {
			t.Errorf("parse(%q) = %d stages, want %d", tt.line, len(p.stages), tt.stages)
		}
	}
}

func TestParseArgvAndRedirOrder(t *testing.T) {
	p := mustParse(t, "cmd one two > out < in >> log three")
	st := p.stages[0]
	wantArgv := []string{"cmd", "one", "two", "three"}
	if len(st.argv) != len(wantArgv) {
		t.Fatalf("argv = %+v", st.argv)
	}
	for i, w := range wantArgv {
		if st.argv[i].text != w {
			t.Errorf("argv[%d] = %q, want %q", i, st.argv[i].text, w)
		}
	}
	wantRedirs := []struct {
		mode redirMode
		fd   int
		path string
	}{
		{redirWriteTrunc, 1, "out"},
		{redirRead, 0, "in"},
		{redirWriteAppend, 1, "log"},
	}
	if len(st.redirs) != len(wantRedirs) {
		t.Fatalf("redirs = %+v", st.redirs)
	}
	for i, w := range wantRedirs {
		rd := st.redirs[i]
		if rd.mode != w.mode || rd.fd != w.fd || rd.word.text != w.path {
			t.Errorf("redir[%d] = %+v, want %+v", i, rd, w)
		}
	}
}

func TestParseStderrRedirect(t *testing.T) {
	p := mustParse(t, "cmd 2> err 2>> err2")
	st := p.stages[0]
	if len(st.redirs) != 2 || st.redirs[0].fd != 2 || st.redirs[1].fd != 2 {
		t.Fatalf("redirs = %+v", st.redirs)
	}
	if st.redirs[0].mode != redirWriteTrunc || st.redirs[1].mode != redirWriteAppend {
		t.Fatalf("redirs = %+v", st.redirs)
	}
}

func TestParseFlags(t *testing.T) {
	if p := mustParse(t, "! a | b"); !p.negate || p.background {
		t.Errorf("flags = negate:%v background:%v", p.negate, p.background)
	}
	if p := mustParse(t, "a &"); p.negate || !p.background {
		t.Errorf("flags = negate:%v background:%v", p.negate, p.background)
	}
	if p := mustParse(t, "! a | b &"); !p.negate || !p.background {
		t.Errorf("flags = negate:%v background:%v", p.negate, p.background)
	}
}

func TestParseAssignments(t *testing.T) {
	p := mustParse(t, "A=1 B=2 cmd C=3")
	st := p.stages[0]
	if len(st.assigns) != 2 || st.assigns[0].name != "A" || st.assigns[1].name != "B" {
		t.Fatalf("assigns = %+v", st.assigns)
	}
	// After the first command word, NAME=VALUE is an ordinary argument.
	if len(st.argv) != 2 || st.argv[1].text != "C=3" {
		t.Fatalf("argv = %+v", st.argv)
	}
}

func TestParseQuotedEqualsIsNotAssignment(t *testing.T) {
	p := mustParse(t, `'A=1' cmd`)
	st := p.stages[0]
	if len(st.assigns) != 0 {
		t.Fatalf("assigns = %+v", st.assigns)
	}
	if len(st.argv) != 2 || st.argv[0].text != "A=1" {
		t.Fatalf("argv = %+v", st.argv)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"a |", ErrEmptyStage},
		{"| a", ErrEmptyStage},
		{"a > ", ErrMissingFilename},
		{"a > | b", ErrMissingFilename},
		{"a < ", ErrMissingFilename},
	}
	for _, tt := range tests {
		if err := parseErr(t, tt.line); !errors.Is(err, tt.want) {
			t.Errorf("parse(%q) err = %v, want %v", tt.line, err, tt.want)
		}
	}
}

func TestParseAmpNotFinal(t *testing.T) {
	err := parseErr(t, "a & b")
	if err == nil {
		t.Fatal("want error")
	}
}

func TestParseRedirectionOnlyStage(t *testing.T) {
	p := mustParse(t, "> file")
	st := p.stages[0]
	if len(st.argv) != 0 || len(st.redirs) != 1 {
		t.Fatalf("stage = %+v", st)
	}
}

func TestRenderPipelineRoundTrip(t *testing.T) {
	for _, line := range []string{"a b | c", "! a", "a > out", "a &"} {
		p := mustParse(t, line)
		p2 := mustParse(t, renderPipeline(p))
		if len(p2.stages) != len(p.stages) || p2.negate != p.negate || p2.background != p.background {
			t.Errorf("render(%q) = %q did not round-trip", line, renderPipeline(p))
		}
	}
}
