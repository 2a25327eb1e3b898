package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root, a := newRootCmd()
	root.Version = fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH)

	if err := runRoot(root, a); err != nil {
		slog.Error("footballhub failed", "error", err)
		os.Exit(1)
	}
}

// runRoot executes root and always releases the app, including when the
// command returned an error.
func runRoot(root *cobra.Command, a *app) error {
	defer a.close()
	return root.Execute()
}
