//go:build !js && !wasm && !wasip1

package ash

import (
	"os"
	"os/signal"
	"syscall"
)

// jobControlSignals are the terminal-generated signals the shell must
// survive: defense in depth on top of process-group separation, since a
// stray signal sent before a child has joined its new group would
// otherwise reach the shell itself.
var jobControlSignals = []os.Signal{
	syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTSTP, syscall.SIGTTIN, syscall.SIGTTOU,
}

// installJobControlSignals ignores the job-control signals in the shell
// process during interactive operation and arms the SIGCHLD-driven
// reaper. Go exposes no hook to run code in a forked child before exec,
// so unlike a hand-written C shell this core cannot literally restore
// default dispositions in the child; instead each foreground pipeline is
// launched with SysProcAttr.Foreground/Ctty (see exec_unix.go), which
// places it in its own foreground process group between clone and exec,
// so terminal signals land on the job's group rather than the shell's.
// signal.Notify keeps SA_RESTART semantics, so the interactive read loop
// resumes transparently after a reap.
func (r *runner) installJobControlSignals() {
	if r.interactive {
		r.ensureForeground()
		signal.Ignore(jobControlSignals...)
	}
	r.sigchld = make(chan os.Signal, 16)
	signal.Notify(r.sigchld, syscall.SIGCHLD)
	go r.reaperLoop()
}

// reaperLoop is the asynchronous half of the reaper: each SIGCHLD wakes
// one non-blocking sweep over the tracked jobs. Notifications are
// buffered and flushed at the next prompt, so no work beyond Wait4 and
// table updates happens here.
func (r *runner) reaperLoop() {
	for range r.sigchld {
		r.reapAvailable()
	}
}

// reapAvailable polls every tracked background or stopped job for all
// currently available state changes, without blocking. Foreground jobs
// are skipped; their waiter owns them.
func (r *runner) reapAvailable() {
	for _, j := range r.jobs.reapable() {
		for _, pid := range r.jobs.livePids(j) {
			var ws syscall.WaitStatus
			got, err := syscall.Wait4(pid, &ws, syscall.WNOHANG|syscall.WUNTRACED|syscall.WCONTINUED, nil)
			if err != nil {
				// ECHILD: someone else collected it; drop the pid.
				if r.jobs.collect(j, pid, 0) {
					r.finishJob(j)
				}
				continue
			}
			if got == 0 {
				continue
			}
			switch {
			case ws.Stopped():
				if r.jobs.noteStopped(j.pgid) {
					r.postNotify(jobNotification(j))
				}
			case ws.Continued():
				r.jobs.setState(j.pgid, jobRunning)
			case ws.Exited():
				if r.jobs.collect(j, pid, ws.ExitStatus()) {
					r.finishJob(j)
				}
			case ws.Signaled():
				if r.jobs.collect(j, pid, 128+int(ws.Signal())) {
					r.finishJob(j)
				}
			}
		}
	}
}

// finishJob emits the exactly-once Done notification and drops the job.
func (r *runner) finishJob(j *job) {
	r.postNotify(jobNotification(j))
	r.jobs.remove(j.pgid)
}
