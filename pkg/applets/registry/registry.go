// Package registry maps applet names to their Run entry points, shared
// by the busybox dispatcher and by ash's standalone command fallback.
package registry

import (
	"sort"

	"github.com/rcarmo/go-busybox/pkg/applets/awk"
	"github.com/rcarmo/go-busybox/pkg/applets/cat"
	"github.com/rcarmo/go-busybox/pkg/applets/cut"
	"github.com/rcarmo/go-busybox/pkg/applets/echo"
	"github.com/rcarmo/go-busybox/pkg/applets/grep"
	"github.com/rcarmo/go-busybox/pkg/applets/head"
	"github.com/rcarmo/go-busybox/pkg/applets/kill"
	"github.com/rcarmo/go-busybox/pkg/applets/ls"
	"github.com/rcarmo/go-busybox/pkg/applets/mkdir"
	"github.com/rcarmo/go-busybox/pkg/applets/ps"
	"github.com/rcarmo/go-busybox/pkg/applets/pwd"
	"github.com/rcarmo/go-busybox/pkg/applets/rm"
	"github.com/rcarmo/go-busybox/pkg/applets/sleep"
	sortapplet "github.com/rcarmo/go-busybox/pkg/applets/sort"
	"github.com/rcarmo/go-busybox/pkg/applets/tail"
	"github.com/rcarmo/go-busybox/pkg/applets/tr"
	"github.com/rcarmo/go-busybox/pkg/applets/uniq"
	"github.com/rcarmo/go-busybox/pkg/applets/wc"
	"github.com/rcarmo/go-busybox/pkg/applets/xargs"
	"github.com/rcarmo/go-busybox/pkg/core"
)

// Applet is the common entry-point contract every applet implements.
type Applet func(stdio *core.Stdio, args []string) int

var applets = map[string]Applet{
	"awk":   awk.Run,
	"cat":   cat.Run,
	"cut":   cut.Run,
	"echo":  echo.Run,
	"grep":  grep.Run,
	"head":  head.Run,
	"kill":  kill.Run,
	"ls":    ls.Run,
	"mkdir": mkdir.Run,
	"ps":    ps.Run,
	"pwd":   pwd.Run,
	"rm":    rm.Run,
	"sleep": sleep.Run,
	"sort":  sortapplet.Run,
	"tail":  tail.Run,
	"tr":    tr.Run,
	"uniq":  uniq.Run,
	"wc":    wc.Run,
	"xargs": xargs.Run,
}

// Lookup returns the applet registered under name, or nil.
func Lookup(name string) Applet {
	return applets[name]
}

// Names returns every registered applet name in sorted order.
func Names() []string {
	names := make([]string, 0, len(applets))
	for name := range applets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
