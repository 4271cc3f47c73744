//go:build !js && !wasm && !wasip1

// Package ash implements the hard core of an interactive,
// job-controlling POSIX-like shell: lexer/parser/expander, a
// fork/pipe/dup/setpgid/tcsetpgrp pipeline launcher, and a job-control
// and signal subsystem built on os/exec and golang.org/x/sys/unix.
package ash

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/rcarmo/go-busybox/pkg/core"
	"golang.org/x/term"
)

// maxLineLen bounds one input line.
const maxLineLen = 4096

// runner is the shell's whole mutable state: variable store, job
// table, terminal ownership, and the deferred notifications the reaper
// hands to the REPL at prompt time.
type runner struct {
	stdio *core.Stdio
	vars  *store
	jobs  *jobTable

	interactive bool
	ttyFd       int
	shellPGID   int

	sigchld  chan os.Signal
	notifyMu sync.Mutex
	pending  []string

	exitRequested bool
	exitCode      int
}

// Run is the ash applet entry point, matching every other applet's
// Run(stdio, args) int contract.
func Run(stdio *core.Stdio, args []string) int {
	r := &runner{
		stdio: stdio,
		vars:  newStore(),
		jobs:  newJobTable(),
		ttyFd: -1,
	}
	r.shellPGID = syscall.Getpgrp()
	if f, ok := stdio.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.interactive = true
		r.ttyFd = int(f.Fd())
	}
	r.installJobControlSignals()

	if len(args) > 0 && args[0] == "-c" {
		if len(args) < 2 {
			return core.UsageError(stdio, "ash", "missing command")
		}
		return r.runLine(args[1])
	}
	if len(args) > 0 {
		return r.runLine(joinArgs(args))
	}
	return r.repl()
}

// repl is the trivial non-editing read loop: a prompt when interactive,
// one line at a time, EOF terminates with the last status.
func (r *runner) repl() int {
	scanner := bufio.NewScanner(r.stdio.In)
	scanner.Buffer(make([]byte, maxLineLen), maxLineLen)
	status := core.ExitSuccess
	for {
		r.drainNotifications()
		if r.interactive {
			r.stdio.Printf("$ ")
		}
		if !scanner.Scan() {
			break
		}
		status = r.runLine(scanner.Text())
		if r.exitRequested {
			return r.exitCode
		}
	}
	return status
}

// postNotify queues one job-state notification for the next prompt.
func (r *runner) postNotify(msg string) {
	r.notifyMu.Lock()
	r.pending = append(r.pending, msg)
	r.notifyMu.Unlock()
}

// drainNotifications sweeps for any state changes a SIGCHLD may have
// raced past, then flushes the deferred notifications queued by the
// reaper since the last prompt.
func (r *runner) drainNotifications() {
	r.reapAvailable()
	r.notifyMu.Lock()
	msgs := r.pending
	r.pending = nil
	r.notifyMu.Unlock()
	for _, msg := range msgs {
		r.stdio.Print(msg)
	}
}

// runLine lexes, parses, expands, and executes every ';'-separated
// pipeline on one input line, returning the status of the last one.
func (r *runner) runLine(line string) int {
	tokens, err := lex(line)
	if err != nil {
		r.stdio.Errorf("ash: %v\n", err)
		r.vars.lastStatus = 2
		return 2
	}
	status := core.ExitSuccess
	for _, group := range splitOnSemi(tokens) {
		if len(group) == 0 {
			continue
		}
		p, err := parse(group)
		if err != nil {
			r.stdio.Errorf("ash: %v\n", err)
			r.vars.lastStatus = 2
			status = 2
			continue
		}
		status = r.execute(p)
		if r.exitRequested {
			return r.exitCode
		}
	}
	return status
}

// splitOnSemi breaks a token stream into the statements the trivial
// read loop runs one after another; ';' is a statement separator, not
// part of the pipeline grammar itself.
func splitOnSemi(tokens []token) [][]token {
	var groups [][]token
	var cur []token
	for _, t := range tokens {
		if t.kind == tokSemi {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

// renderPipeline reconstructs a human-readable command line for job
// notifications and `jobs` output.
func renderPipeline(p pipeline) string {
	s := ""
	if p.negate {
		s += "! "
	}
	for i, st := range p.stages {
		if i > 0 {
			s += " | "
		}
		for _, a := range st.assigns {
			s += a.name + "=" + a.word.text + " "
		}
		for j, w := range st.argv {
			if j > 0 {
				s += " "
			}
			s += w.text
		}
		for _, rd := range st.redirs {
			op := map[redirMode]string{redirRead: "<", redirWriteTrunc: ">", redirWriteAppend: ">>"}[rd.mode]
			s += fmt.Sprintf(" %s%s %s", fdPrefix(rd.fd), op, rd.word.text)
		}
	}
	if p.background {
		s += " &"
	}
	return s
}

func fdPrefix(fd int) string {
	if fd == 2 {
		return "2"
	}
	return ""
}
