// Command busybox is the multi-call binary: it dispatches to an applet
// named either by its first argument or by the name it was invoked
// under (a symlink or hard link named after the applet).
package main

import (
	"os"
	"path/filepath"

	"github.com/rcarmo/go-busybox/pkg/applets/ash"
	"github.com/rcarmo/go-busybox/pkg/applets/registry"
	"github.com/rcarmo/go-busybox/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()

	applet, args := resolveApplet(os.Args)
	if applet == "" {
		printAppletList(stdio)
		os.Exit(core.ExitUsage)
	}

	run := lookup(applet)
	if run == nil {
		stdio.Errorf("busybox: applet not found: %s\n", applet)
		printAppletList(stdio)
		os.Exit(core.ExitUsage)
	}

	// Applets expect args without the applet name.
	os.Exit(run(stdio, args))
}

func lookup(applet string) registry.Applet {
	if applet == "ash" || applet == "sh" {
		return ash.Run
	}
	return registry.Lookup(applet)
}

func resolveApplet(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	// If invoked as "busybox applet ..."
	if len(args) > 1 && filepath.Base(args[0]) == "busybox" {
		return args[1], args[2:]
	}

	// If invoked as a symlink named after the applet
	applet := filepath.Base(args[0])
	return applet, args[1:]
}

func printAppletList(stdio *core.Stdio) {
	stdio.Println("Currently defined functions:")
	stdio.Print(" ", "ash")
	stdio.Print(" ", "sh")
	for _, name := range registry.Names() {
		stdio.Print(" ", name)
	}
	stdio.Println()
}
