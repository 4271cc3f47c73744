//go:build !js && !wasm && !wasip1

package ash

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/rcarmo/go-busybox/pkg/applets/registry"
	"github.com/rcarmo/go-busybox/pkg/core"
	"golang.org/x/sys/unix"
)

// execStage is a stage after expansion: argv resolved, redirections
// expanded to concrete (fd, path, mode) tuples, stage-local assignments
// collected for the child's environment.
type execStage struct {
	argv      []string
	assigns   map[string]string
	redirs    []expandedRedirect
	isBuiltin bool
}

type expandedRedirect struct {
	fd   int
	mode redirMode
	path string
}

// expandStage expands one parsed stage against the current variable
// store. Assignments are collected but not yet applied anywhere; the
// caller decides whether they become child-env (external stage) or
// mutate the shell store (fast-path builtin).
func (r *runner) expandStage(st stage) execStage {
	lookup := func(name string) (string, bool) { return r.vars.get(name) }
	es := execStage{assigns: map[string]string{}}
	for _, a := range st.assigns {
		es.assigns[a.name] = joinFields(expandWord(a.word, lookup))
	}
	for _, w := range st.argv {
		es.argv = append(es.argv, expandWord(w, lookup)...)
	}
	for _, rd := range st.redirs {
		path := joinFields(expandWord(rd.word, lookup))
		es.redirs = append(es.redirs, expandedRedirect{fd: rd.fd, mode: rd.mode, path: path})
	}
	if len(es.argv) > 0 {
		es.isBuiltin = isBuiltinName(es.argv[0])
	}
	return es
}

func joinFields(fields []string) string {
	return strings.Join(fields, " ")
}

// execute runs a parsed pipeline to completion and returns its exit
// status.
func (r *runner) execute(p pipeline) int {
	if len(p.stages) == 0 {
		return 0
	}
	stages := make([]execStage, len(p.stages))
	for i, st := range p.stages {
		stages[i] = r.expandStage(st)
	}

	var status int
	if len(stages) == 1 && !p.background && (stages[0].isBuiltin || len(stages[0].argv) == 0) {
		// Fast path: a single foreground builtin (or an assignment- or
		// redirection-only stage) runs in the shell process itself so
		// cwd, variable, and job-table changes persist.
		var exit bool
		status, exit = r.runInProcess(r.stdio, stages[0], false)
		if exit {
			r.exitRequested = true
			r.exitCode = status
		}
	} else {
		status = r.runGeneral(p, stages)
	}
	if p.negate && !p.background {
		if status == 0 {
			status = 1
		} else {
			status = 0
		}
	}
	r.vars.lastStatus = status
	return status
}

// stageProc is the handle the waiters use to collect one stage's
// outcome, whether it is a real child process or an in-process stage
// goroutine standing in for one (see runGeneral).
type stageProc struct {
	pid    int
	waitFn func() (status int, stopped bool)
}

// runGeneral is the fork/pipe/dup/setpgid/tcsetpgrp choreography of the
// general execution path: N-1 anonymous pipes, one child per stage, all
// children in a common process group, terminal handed to that group on
// the foreground path.
func (r *runner) runGeneral(p pipeline, stages []execStage) int {
	n := len(stages)
	type pipePair struct{ r, w *os.File }
	pipes := make([]pipePair, n-1)
	for i := range pipes {
		pr, pw, err := os.Pipe()
		if err != nil {
			r.stdio.Errorf("ash: pipe: %v\n", err)
			for j := 0; j < i; j++ {
				pipes[j].r.Close()
				pipes[j].w.Close()
			}
			r.exitRequested = true
			r.exitCode = 1
			return 1
		}
		pipes[i] = pipePair{pr, pw}
	}

	// Pipe ends handed to an in-process stage goroutine stay open until
	// that goroutine finishes; the shell closes every other end as soon
	// as all stages are launched.
	inprocOwned := map[*os.File]bool{}

	var procs []stageProc
	var pgid int
	var pids []int
	foreground := !p.background && r.interactive && r.ttyFd >= 0

	for i, es := range stages {
		var stdin io.Reader = r.stdio.In
		var stdout io.Writer = r.stdio.Out
		var ownedEnds []io.Closer
		if i > 0 {
			stdin = pipes[i-1].r
		}
		if i < n-1 {
			stdout = pipes[i].w
		}

		runInproc := func(fn func(*core.Stdio) int) {
			if i > 0 {
				inprocOwned[pipes[i-1].r] = true
				ownedEnds = append(ownedEnds, pipes[i-1].r)
			}
			if i < n-1 {
				inprocOwned[pipes[i].w] = true
				ownedEnds = append(ownedEnds, pipes[i].w)
			}
			done := make(chan int, 1)
			stageStdio := &core.Stdio{In: stdin, Out: stdout, Err: r.stdio.Err}
			owned := ownedEnds
			go func() {
				code := fn(stageStdio)
				closeAll(owned)
				done <- code
			}()
			procs = append(procs, stageProc{waitFn: func() (int, bool) { return <-done, false }})
		}

		if len(es.argv) == 0 || es.isBuiltin {
			// A builtin mid-pipeline (or in a backgrounded pipeline)
			// cannot be forked: Go exposes no hook between fork and
			// exec. It runs in-process against a deep-copied store so
			// it still cannot mutate shell state.
			es := es
			snap := r.vars.clone()
			runInproc(func(stdio *core.Stdio) int {
				sub := &runner{stdio: stdio, vars: snap, jobs: r.jobs, ttyFd: -1}
				code, _ := sub.runInProcess(stdio, es, true)
				return code
			})
			continue
		}

		target, err := resolvePath(es.argv[0])
		if err != nil {
			if applet := registry.Lookup(es.argv[0]); applet != nil {
				// Standalone-shell fallback: a command that is not on
				// PATH but names one of our own applets runs in-process,
				// the way busybox resolves applets before the filesystem.
				es := es
				runInproc(func(stdio *core.Stdio) int {
					return runAppletStage(stdio, applet, es)
				})
				continue
			}
			status := 127
			if errors.Is(err, errNotExecutable) {
				status = 126
			}
			r.stdio.Errorf("ash: %s: %v\n", es.argv[0], err)
			st := status
			procs = append(procs, stageProc{waitFn: func() (int, bool) { return st, false }})
			continue
		}

		cmd := exec.Command(target, es.argv[1:]...)
		cmd.Env = r.vars.childEnv(es.assigns)
		cmd.Stdin = stdin
		cmd.Stdout = stdout
		cmd.Stderr = r.stdio.Err
		closers, err := applyRedirects(cmd, es.redirs)
		if err != nil {
			r.stdio.Errorf("ash: %v\n", err)
			closeAll(closers)
			procs = append(procs, stageProc{waitFn: func() (int, bool) { return 1, false }})
			continue
		}

		attr := &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}
		if foreground && pgid == 0 {
			// Child-side half of the terminal handoff: the runtime
			// performs setpgid+tcsetpgrp in the child between clone and
			// exec when Foreground is set.
			attr.Foreground = true
			attr.Ctty = r.ttyFd
		}
		cmd.SysProcAttr = attr

		if err := cmd.Start(); err != nil {
			closeAll(closers)
			status := 1
			switch {
			case errors.Is(err, os.ErrNotExist):
				status = 127
			case errors.Is(err, os.ErrPermission):
				status = 126
			}
			r.stdio.Errorf("ash: %s: %v\n", es.argv[0], err)
			st := status
			procs = append(procs, stageProc{waitFn: func() (int, bool) { return st, false }})
			continue
		}
		closeAll(closers)
		pid := cmd.Process.Pid
		if pgid == 0 {
			pgid = pid
		}
		// Parent-side half of the same dance: redundantly set the
		// child's group and hand over the terminal, so neither side has
		// to win the scheduling race.
		_ = unix.Setpgid(pid, pgid)
		if foreground {
			_ = setForegroundGroup(r.ttyFd, pgid)
		}
		pids = append(pids, pid)
		c := cmd
		procs = append(procs, stageProc{pid: pid, waitFn: func() (int, bool) {
			status, stopped := waitPID(pid)
			if !stopped {
				// Flush exec.Cmd's copier goroutines for non-file stdio.
				_ = c.Wait()
			}
			return status, stopped
		}})
	}

	// Close every pipe end the shell still holds; a leaked write end
	// would keep downstream readers from ever seeing EOF.
	for _, pp := range pipes {
		if !inprocOwned[pp.r] {
			pp.r.Close()
		}
		if !inprocOwned[pp.w] {
			pp.w.Close()
		}
	}

	cmdText := renderPipeline(p)
	if p.background {
		j := r.jobs.add(pgid, cmdText, true, pids)
		if j.pgid > 0 {
			r.vars.lastBG = j.pgid
		}
		r.stdio.Printf("[%d] %d\n", j.id, j.pgid)
		if j.pgid <= 0 {
			// Every stage ran in-process; a waiter goroutine stands in
			// for the reaper.
			go r.watchInProcessJob(j, procs)
		}
		return 0
	}

	status, stopped := waitAll(procs)
	if foreground {
		_ = setForegroundGroup(r.ttyFd, r.shellPGID)
	}
	if stopped {
		j := r.jobs.add(pgid, cmdText, false, pids)
		j.state = jobStopped
		j.notified = true
		r.stdio.Printf("\n%s", jobNotification(j))
		return 0
	}
	return status
}

// watchInProcessJob waits a pipeline whose stages all ran inside the
// shell process and posts its Done notification for the next prompt.
func (r *runner) watchInProcessJob(j *job, procs []stageProc) {
	status, _ := waitAll(procs)
	j.status = status
	j.state = jobDone
	r.postNotify(jobNotification(j))
	r.jobs.remove(j.pgid)
}

// runInProcess executes a single builtin or bare assignment/redirection
// stage against stdio, honoring the stage's own redirections. pipelined
// suppresses the exit request so `exit` inside a pipeline cannot bring
// the shell down.
func (r *runner) runInProcess(stdio *core.Stdio, es execStage, pipelined bool) (int, bool) {
	sub, closers, err := applyRedirectsInProcess(stdio, es.redirs)
	if err != nil {
		stdio.Errorf("ash: %v\n", err)
		return 1, false
	}
	defer closeAll(closers)
	code, exit := r.runBuiltin(sub, es.argv, es.assigns)
	if pipelined {
		exit = false
	}
	return code, exit
}

// runAppletStage runs one of the multi-call binary's own applets as a
// pipeline stage when PATH resolution found nothing.
func runAppletStage(stdio *core.Stdio, applet registry.Applet, es execStage) int {
	sub, closers, err := applyRedirectsInProcess(stdio, es.redirs)
	if err != nil {
		stdio.Errorf("ash: %v\n", err)
		return 1
	}
	defer closeAll(closers)
	return applet(sub, es.argv[1:])
}

// applyRedirectsInProcess opens a stage's redirections and returns a
// Stdio with them wired in, for stages that run inside the shell.
func applyRedirectsInProcess(stdio *core.Stdio, redirs []expandedRedirect) (*core.Stdio, []io.Closer, error) {
	sub := &core.Stdio{In: stdio.In, Out: stdio.Out, Err: stdio.Err}
	var closers []io.Closer
	for _, rd := range redirs {
		f, err := openRedirect(rd)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		closers = append(closers, f)
		switch {
		case rd.mode == redirRead:
			sub.In = f
		case rd.fd == 2:
			sub.Err = f
		default:
			sub.Out = f
		}
	}
	return sub, closers, nil
}

func closeAll(cs []io.Closer) {
	for _, c := range cs {
		_ = c.Close()
	}
}

// applyRedirects opens each redirection in declared order and wires it
// onto the child's stdin/stdout/stderr handles before Start(); the last
// redirection to the same target fd wins. The returned closers are the
// shell's copies of the opened files, closed once the child holds its
// own after Start.
func applyRedirects(cmd *exec.Cmd, redirs []expandedRedirect) ([]io.Closer, error) {
	var closers []io.Closer
	for _, rd := range redirs {
		f, err := openRedirect(rd)
		if err != nil {
			return closers, err
		}
		closers = append(closers, f)
		switch {
		case rd.mode == redirRead:
			cmd.Stdin = f
		case rd.fd == 2:
			cmd.Stderr = f
		default:
			cmd.Stdout = f
		}
	}
	return closers, nil
}

func openRedirect(rd expandedRedirect) (*os.File, error) {
	if rd.mode == redirRead {
		return os.Open(rd.path)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if rd.mode == redirWriteAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(rd.path, flags, 0644)
}

// waitAll blocks until every stage finishes or the job stops, returning
// the pipeline's status (the last stage decides). External children are
// collected first: once the group is stopped, in-process stages may be
// parked mid-write and must not be waited on.
func waitAll(procs []stageProc) (status int, stopped bool) {
	for i, p := range procs {
		if p.pid == 0 {
			continue
		}
		code, st := p.waitFn()
		if st {
			stopped = true
		}
		if i == len(procs)-1 {
			status = code
		}
	}
	if stopped {
		return 0, true
	}
	for i, p := range procs {
		if p.pid != 0 {
			continue
		}
		code, _ := p.waitFn()
		if i == len(procs)-1 {
			status = code
		}
	}
	return status, false
}

// waitPID blocks on one child with WUNTRACED so a SIGTSTP-stopped child
// is reported rather than silently waited through.
func waitPID(pid int) (status int, stopped bool) {
	var ws syscall.WaitStatus
	for {
		_, err := syscall.Wait4(pid, &ws, syscall.WUNTRACED, nil)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return 1, false
		}
		if ws.Stopped() {
			return 0, true
		}
		if ws.Exited() {
			return ws.ExitStatus(), false
		}
		if ws.Signaled() {
			return 128 + int(ws.Signal()), false
		}
		return 1, false
	}
}

// resumeJob continues a job with SIGCONT, either reclaiming the terminal
// for it and waiting (fg) or leaving it in the background (bg).
func (r *runner) resumeJob(j *job, foreground bool) int {
	if j.pgid <= 0 {
		// In-process job: there is no process group to signal; the
		// waiter goroutine finishes it on its own.
		r.stdio.Errorf("ash: job %d has no process group\n", j.id)
		return 1
	}
	if foreground {
		r.jobs.setForeground(j.pgid, true)
		if r.interactive && r.ttyFd >= 0 {
			_ = setForegroundGroup(r.ttyFd, j.pgid)
		}
	}
	r.jobs.setState(j.pgid, jobRunning)
	_ = unix.Kill(-j.pgid, unix.SIGCONT)
	if !foreground {
		r.stdio.Printf("[%d]+ %s &\n", j.id, j.cmd)
		return 0
	}
	r.stdio.Printf("%s\n", j.cmd)
	status, stopped := r.waitJob(j)
	if r.interactive && r.ttyFd >= 0 {
		_ = setForegroundGroup(r.ttyFd, r.shellPGID)
	}
	r.jobs.setForeground(j.pgid, false)
	if stopped {
		r.jobs.setState(j.pgid, jobStopped)
		j.notified = true
		r.stdio.Printf("\n%s", jobNotification(j))
		return 0
	}
	r.jobs.remove(j.pgid)
	return status
}

// waitJob collects a resumed job's remaining children in pipeline order.
func (r *runner) waitJob(j *job) (status int, stopped bool) {
	for _, pid := range r.jobs.livePids(j) {
		code, st := waitPID(pid)
		if st {
			stopped = true
			continue
		}
		r.jobs.collect(j, pid, code)
	}
	if stopped {
		return 0, true
	}
	return j.status, false
}

// setForegroundGroup hands the terminal to pgid.
func setForegroundGroup(fd, pgid int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
}

// foregroundGroup reads the terminal's current foreground pgid.
func foregroundGroup(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}

// ensureForeground is the interactive startup dance: loop until the
// shell's group owns the terminal (SIGTTIN stops us until then), then
// claim the terminal for our own group. Must run before the job-control
// signals are ignored, or the self-delivered SIGTTIN could not stop us.
func (r *runner) ensureForeground() {
	for {
		pg, err := foregroundGroup(r.ttyFd)
		if err != nil || pg == syscall.Getpgrp() {
			break
		}
		_ = unix.Kill(-syscall.Getpgrp(), unix.SIGTTIN)
	}
	r.shellPGID = syscall.Getpgrp()
	_ = setForegroundGroup(r.ttyFd, r.shellPGID)
}
