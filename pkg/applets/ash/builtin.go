//go:build !js && !wasm && !wasip1

package ash

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rcarmo/go-busybox/pkg/core"
)

// builtinNames are the commands the executor runs in-process rather
// than exec'ing, including the small reflex builtins every shell ships
// (echo, true, false, pwd).
var builtinNames = map[string]bool{
	"cd":     true,
	"export": true,
	"unset":  true,
	"jobs":   true,
	"fg":     true,
	"bg":     true,
	"exit":   true,
	"echo":   true,
	"true":   true,
	"false":  true,
	"pwd":    true,
}

func isBuiltinName(name string) bool { return builtinNames[name] }

// runBuiltin dispatches one builtin by name. assigns holds the stage's
// own NAME=VALUE prefixes; they are set in the store before the call and
// stay set afterwards, so on the fast path they persist in the shell.
// The second return value reports whether "exit" was invoked; it is the
// caller's responsibility to honor it only when the builtin ran as the
// shell's own foreground command, not as a pipeline/background stage.
func (r *runner) runBuiltin(stdio *core.Stdio, argv []string, assigns map[string]string) (int, bool) {
	for name, val := range assigns {
		r.vars.set(name, val, r.vars.isExported(name))
	}
	if len(argv) == 0 {
		// Assignment- or redirection-only stage: the side effects are
		// the whole command.
		return core.ExitSuccess, false
	}
	switch argv[0] {
	case "echo":
		fmt.Fprintln(stdio.Out, joinArgs(argv[1:]))
		return core.ExitSuccess, false
	case "true":
		return core.ExitSuccess, false
	case "false":
		return core.ExitFailure, false
	case "pwd":
		dir, err := os.Getwd()
		if err != nil {
			stdio.Errorf("ash: pwd: %v\n", err)
			return core.ExitFailure, false
		}
		fmt.Fprintln(stdio.Out, dir)
		return core.ExitSuccess, false
	case "cd":
		return r.builtinCd(stdio, argv), false
	case "export":
		return r.builtinExport(stdio, argv), false
	case "unset":
		return r.builtinUnset(argv), false
	case "jobs":
		return r.builtinJobs(stdio), false
	case "fg":
		return r.builtinFg(stdio), false
	case "bg":
		return r.builtinBg(stdio), false
	case "exit":
		code := r.vars.lastStatus
		if len(argv) > 1 {
			if v, err := strconv.Atoi(argv[1]); err == nil {
				code = v
			}
		}
		return code, true
	}
	stdio.Errorf("ash: %s: not a builtin\n", argv[0])
	return core.ExitFailure, false
}

func joinArgs(args []string) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += a
	}
	return s
}

// builtinCd changes directory, defaulting to HOME; on failure it
// reports the OS error and returns 1.
func (r *runner) builtinCd(stdio *core.Stdio, argv []string) int {
	target := ""
	if len(argv) > 1 {
		target = argv[1]
	}
	if target == "" {
		home, _ := r.vars.get("HOME")
		target = home
	}
	if target == "" {
		target = "."
	}
	if err := os.Chdir(target); err != nil {
		stdio.Errorf("ash: cd: %v\n", err)
		return core.ExitFailure
	}
	return core.ExitSuccess
}

// builtinExport marks each NAME[=VALUE] as exported, setting the value
// when given.
func (r *runner) builtinExport(stdio *core.Stdio, argv []string) int {
	if len(argv) == 1 {
		for _, name := range r.vars.enumerate() {
			if r.vars.isExported(name) {
				v, _ := r.vars.get(name)
				fmt.Fprintf(stdio.Out, "export %s=%s\n", name, v)
			}
		}
		return core.ExitSuccess
	}
	for _, arg := range argv[1:] {
		if name, val, ok := parseNameEquals(arg); ok {
			r.vars.set(name, val, true)
		} else {
			r.vars.export(arg)
		}
	}
	return core.ExitSuccess
}

func (r *runner) builtinUnset(argv []string) int {
	for _, name := range argv[1:] {
		r.vars.unset(name)
	}
	return core.ExitSuccess
}

func parseNameEquals(tok string) (string, string, bool) {
	for i := 0; i < len(tok); i++ {
		if tok[i] == '=' {
			return tok[:i], tok[i+1:], i > 0
		}
	}
	return "", "", false
}

// builtinJobs prints the job table, including the PGID column every
// job already carries.
func (r *runner) builtinJobs(stdio *core.Stdio) int {
	for _, j := range r.jobs.enumerate() {
		fmt.Fprintf(stdio.Out, "[%d] %d %-8s %s\n", j.id, j.pgid, j.state, j.cmd)
	}
	return core.ExitSuccess
}

// builtinFg resumes and waits on the most-recently-added job, placing it
// in the foreground.
func (r *runner) builtinFg(stdio *core.Stdio) int {
	j := r.jobs.mostRecent()
	if j == nil {
		stdio.Errorf("ash: fg: no current job\n")
		return core.ExitFailure
	}
	return r.resumeJob(j, true)
}

// builtinBg resumes the most-recently-added stopped job without placing
// it in the foreground.
func (r *runner) builtinBg(stdio *core.Stdio) int {
	j := r.jobs.mostRecentStopped()
	if j == nil {
		stdio.Errorf("ash: bg: no stopped job\n")
		return core.ExitFailure
	}
	return r.resumeJob(j, false)
}
