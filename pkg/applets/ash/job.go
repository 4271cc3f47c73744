package ash

import (
	"fmt"
	"sync"
)

type jobState int

const (
	jobRunning jobState = iota
	jobStopped
	jobDone
)

func (s jobState) String() string {
	switch s {
	case jobRunning:
		return "Running"
	case jobStopped:
		return "Stopped"
	case jobDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// job is the shell's user-level name for a process group it launched.
// pids holds the group's members in pipeline order; live marks the ones
// the reaper has not collected yet. A synthetic negative pgid means the
// job has no external children (every stage ran in-process) and is
// tracked by a waiter goroutine instead of the reaper.
type job struct {
	id         int
	pgid       int
	state      jobState
	cmd        string
	background bool
	// foreground is set while fg owns the job's wait; the reaper must
	// not compete for its children then.
	foreground bool
	pids       []int
	live       map[int]bool
	status     int
	notified   bool
}

// jobTable is the shell's ordered job collection, keyed by PGID.
type jobTable struct {
	mu      sync.Mutex
	byPGID  map[int]*job
	order   []int
	nextID  int
	nextSyn int
}

func newJobTable() *jobTable {
	return &jobTable{byPGID: map[int]*job{}}
}

// add registers a new job. pgid 0 asks for a synthetic id, used when the
// whole pipeline ran in-process and there is no real process group.
func (t *jobTable) add(pgid int, cmd string, background bool, pids []int) *job {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	if pgid == 0 {
		t.nextSyn--
		pgid = t.nextSyn
	}
	live := make(map[int]bool, len(pids))
	for _, p := range pids {
		live[p] = true
	}
	j := &job{id: t.nextID, pgid: pgid, state: jobRunning, cmd: cmd, background: background, pids: pids, live: live}
	t.byPGID[pgid] = j
	t.order = append(t.order, pgid)
	return j
}

func (t *jobTable) lookup(pgid int) *job {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byPGID[pgid]
}

func (t *jobTable) remove(pgid int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byPGID, pgid)
	for i, p := range t.order {
		if p == pgid {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// enumerate returns jobs in the order they were added.
func (t *jobTable) enumerate() []*job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*job, 0, len(t.order))
	for _, pgid := range t.order {
		out = append(out, t.byPGID[pgid])
	}
	return out
}

// mostRecent returns the last-added job still in the table, or nil.
func (t *jobTable) mostRecent() *job {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.order) == 0 {
		return nil
	}
	return t.byPGID[t.order[len(t.order)-1]]
}

// mostRecentStopped returns the last-added STOPPED job, for bg.
func (t *jobTable) mostRecentStopped() *job {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.order) - 1; i >= 0; i-- {
		if j := t.byPGID[t.order[i]]; j.state == jobStopped {
			return j
		}
	}
	return nil
}

func (t *jobTable) setState(pgid int, state jobState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.byPGID[pgid]; ok {
		j.state = state
		if state != jobStopped {
			j.notified = false
		}
	}
}

// noteStopped transitions a job to STOPPED and reports whether this is
// fresh news, so the stop notification is emitted exactly once.
func (t *jobTable) noteStopped(pgid int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.byPGID[pgid]
	if !ok || (j.state == jobStopped && j.notified) {
		return false
	}
	j.state = jobStopped
	j.notified = true
	return true
}

func (t *jobTable) setForeground(pgid int, fg bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.byPGID[pgid]; ok {
		j.foreground = fg
	}
}

// reapable returns a snapshot of jobs the SIGCHLD reaper may poll:
// everything with real children that fg does not currently own.
func (t *jobTable) reapable() []*job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*job, 0, len(t.order))
	for _, pgid := range t.order {
		j := t.byPGID[pgid]
		if j.foreground || j.pgid <= 0 {
			continue
		}
		out = append(out, j)
	}
	return out
}

// livePids returns the job's uncollected pids in pipeline order.
func (t *jobTable) livePids(j *job) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, 0, len(j.live))
	for _, p := range j.pids {
		if j.live[p] {
			out = append(out, p)
		}
	}
	return out
}

// collect records that pid was reaped with status and reports whether
// the whole job is now done. The last pipeline stage's status becomes
// the job's status.
func (t *jobTable) collect(j *job, pid, status int) (done bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(j.live, pid)
	if len(j.pids) > 0 && pid == j.pids[len(j.pids)-1] {
		j.status = status
	}
	if len(j.live) == 0 {
		j.state = jobDone
		return true
	}
	return false
}

func jobNotification(j *job) string {
	switch j.state {
	case jobDone:
		return fmt.Sprintf("[%d]+ Done                    %s\n", j.id, j.cmd)
	case jobStopped:
		return fmt.Sprintf("[%d]+ Stopped                 %s\n", j.id, j.cmd)
	default:
		return fmt.Sprintf("[%d] %d\n", j.id, j.pgid)
	}
}
