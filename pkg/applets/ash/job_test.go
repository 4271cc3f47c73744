package ash

import (
	"strings"
	"testing"
)

func TestJobTableOrdering(t *testing.T) {
	jt := newJobTable()
	j1 := jt.add(100, "first", true, []int{100})
	j2 := jt.add(200, "second", true, []int{200, 201})
	if j1.id != 1 || j2.id != 2 {
		t.Fatalf("ids = %d, %d", j1.id, j2.id)
	}
	jobs := jt.enumerate()
	if len(jobs) != 2 || jobs[0].pgid != 100 || jobs[1].pgid != 200 {
		t.Fatalf("enumerate = %+v", jobs)
	}
	if jt.mostRecent() != j2 {
		t.Fatal("mostRecent != last added")
	}
	jt.remove(200)
	if jt.mostRecent() != j1 {
		t.Fatal("mostRecent after remove != first")
	}
	if jt.lookup(200) != nil {
		t.Fatal("removed job still resolvable")
	}
}

func TestJobTableSyntheticPGID(t *testing.T) {
	jt := newJobTable()
	j1 := jt.add(0, "builtin-only", true, nil)
	j2 := jt.add(0, "another", true, nil)
	if j1.pgid >= 0 || j2.pgid >= 0 || j1.pgid == j2.pgid {
		t.Fatalf("synthetic pgids = %d, %d", j1.pgid, j2.pgid)
	}
	if jt.lookup(j1.pgid) != j1 {
		t.Fatal("synthetic pgid not resolvable")
	}
}

func TestJobCollectLastStageDecides(t *testing.T) {
	jt := newJobTable()
	j := jt.add(300, "a | b | c", true, []int{300, 301, 302})
	if done := jt.collect(j, 301, 1); done {
		t.Fatal("done after one of three")
	}
	if done := jt.collect(j, 302, 42); done {
		t.Fatal("done after two of three")
	}
	if done := jt.collect(j, 300, 0); !done {
		t.Fatal("not done after all three")
	}
	if j.status != 42 {
		t.Fatalf("status = %d, want the last stage's 42", j.status)
	}
	if j.state != jobDone {
		t.Fatalf("state = %v", j.state)
	}
}

func TestJobStoppedNotifiedOnce(t *testing.T) {
	jt := newJobTable()
	j := jt.add(400, "sleeper", true, []int{400})
	if !jt.noteStopped(400) {
		t.Fatal("first stop not fresh")
	}
	if jt.noteStopped(400) {
		t.Fatal("second stop reported as fresh")
	}
	jt.setState(400, jobRunning)
	if !jt.noteStopped(400) {
		t.Fatal("stop after continue not fresh")
	}
	_ = j
}

func TestJobMostRecentStopped(t *testing.T) {
	jt := newJobTable()
	jt.add(500, "running", true, []int{500})
	j2 := jt.add(501, "stopped", true, []int{501})
	jt.noteStopped(501)
	if got := jt.mostRecentStopped(); got != j2 {
		t.Fatalf("mostRecentStopped = %+v", got)
	}
}

func TestJobReapableSkipsForeground(t *testing.T) {
	jt := newJobTable()
	jt.add(600, "bg", true, []int{600})
	jt.add(601, "fg-owned", true, []int{601})
	jt.setForeground(601, true)
	jt.add(0, "in-process", true, nil)
	got := jt.reapable()
	if len(got) != 1 || got[0].pgid != 600 {
		t.Fatalf("reapable = %+v", got)
	}
}

func TestJobNotificationFormat(t *testing.T) {
	jt := newJobTable()
	j := jt.add(700, "sleep 5 &", true, []int{700})
	if s := jobNotification(j); !strings.HasPrefix(s, "[1] 700") {
		t.Errorf("running notification = %q", s)
	}
	jt.noteStopped(700)
	if s := jobNotification(j); !strings.Contains(s, "Stopped") || !strings.Contains(s, "sleep 5 &") {
		t.Errorf("stopped notification = %q", s)
	}
	j.state = jobDone
	if s := jobNotification(j); !strings.Contains(s, "Done") {
		t.Errorf("done notification = %q", s)
	}
}
