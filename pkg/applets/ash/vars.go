package ash

import (
	"os"
	"sort"
	"strconv"
)

// entry is one variable-store slot: a value plus whether it is mirrored
// into the process environment for child processes.
type entry struct {
	value    string
	exported bool
}

// store is the shell's variable table. At most one entry
// per name; an entry is only removed by unset.
type store struct {
	vars map[string]entry
	pid  int
	// lastStatus, lastBG back the read-only pseudo-parameters ? and !.
	lastStatus int
	lastBG     int
}

func newStore() *store {
	return &store{
		vars: map[string]entry{},
		pid:  os.Getpid(),
	}
}

// get returns the value of name, falling back to the process environment.
// The pseudo-parameters ?, $, ! are served here directly and are never
// stored in vars.
func (s *store) get(name string) (string, bool) {
	switch name {
	case "?":
		return strconv.Itoa(s.lastStatus), true
	case "$":
		return strconv.Itoa(s.pid), true
	case "!":
		if s.lastBG == 0 {
			return "", false
		}
		return strconv.Itoa(s.lastBG), true
	}
	if e, ok := s.vars[name]; ok {
		return e.value, true
	}
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	return "", false
}

// set creates or updates name. When exported is true (or the name was
// already exported) the process environment is updated so subsequently
// exec'd children inherit it.
func (s *store) set(name, value string, exported bool) {
	e := s.vars[name]
	e.value = value
	if exported {
		e.exported = true
	}
	s.vars[name] = e
	if e.exported {
		os.Setenv(name, value)
	}
}

// export marks an existing (or newly created, empty) name as exported
// and mirrors it into the process environment.
func (s *store) export(name string) {
	e := s.vars[name]
	e.exported = true
	s.vars[name] = e
	os.Setenv(name, e.value)
}

// unset removes name from the store and the process environment.
func (s *store) unset(name string) {
	delete(s.vars, name)
	os.Unsetenv(name)
}

// enumerate returns all stored names in sorted order, for export's
// listing and for building child environments.
func (s *store) enumerate() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clone returns a deep copy of the store, used to give a builtin running
// as a pipeline stage its own private state so it cannot mutate the
// shell's variables.
func (s *store) clone() *store {
	c := &store{vars: make(map[string]entry, len(s.vars)), pid: s.pid, lastStatus: s.lastStatus, lastBG: s.lastBG}
	for k, v := range s.vars {
		c.vars[k] = v
	}
	return c
}

// isExported reports whether name is currently marked exported.
func (s *store) isExported(name string) bool {
	return s.vars[name].exported
}

// childEnv builds the environment slice for a child process: the shell's
// exported variables layered on top of the inherited process environment,
// plus any stage-scoped assignments.
func (s *store) childEnv(stageAssigns map[string]string) []string {
	env := os.Environ()
	for _, name := range s.enumerate() {
		if s.isExported(name) {
			env = append(env, name+"="+s.vars[name].value)
		}
	}
	for name, value := range stageAssigns {
		env = append(env, name+"="+value)
	}
	return env
}
