// Package main provides the hagate-tui binary — interactive findings browser.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/homecfg/hagate/pkg/registry"
	"github.com/homecfg/hagate/pkg/tui"
	"github.com/homecfg/hagate/pkg/validate"
)

func main() {
	storage := flag.String("storage", "", "registry snapshot directory (default <config>/.storage)")
	flag.Parse()

	configDir := "."
	if flag.NArg() > 0 {
		configDir = flag.Arg(0)
	}
	storageDir := *storage
	if storageDir == "" {
		storageDir = filepath.Join(configDir, ".storage")
	}

	snap, warnings := registry.Load(storageDir)
	runner := &validate.Runner{Snapshot: snap, SnapshotWarnings: warnings}
	result, err := runner.RunDir(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !result.Verdict {
		os.Exit(1)
	}
}
