// Package main provides the hagate binary, which validates Home Assistant
// configuration against registry snapshots.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/homecfg/hagate/pkg/gate"
	"github.com/homecfg/hagate/pkg/history"
	"github.com/homecfg/hagate/pkg/logs"
	"github.com/homecfg/hagate/pkg/registry"
	"github.com/homecfg/hagate/pkg/report"
	"github.com/homecfg/hagate/pkg/validate"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	loadDotEnv()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv seeds the environment from a .env file in the working
// directory, so HAGATE_STORAGE and HAGATE_HISTORY can live next to the
// config. Real environment variables win over file entries.
func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if _, set := os.LookupEnv(key); !set {
			os.Setenv(key, val)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "hagate",
	Short: "Home Assistant configuration gate",
	Long: "hagate validates Home Assistant YAML configuration against the " +
		"entity, device and area registries before it ships.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, closer, err := logs.Setup(logs.Options{
			Debug:   flagDebug,
			Quiet:   flagQuiet,
			LogFile: flagLogFile,
		})
		if err != nil {
			return err
		}
		if closer != nil {
			cobra.OnFinalize(func() { closer.Close() })
		}
		return nil
	},
}

var (
	flagDebug   bool
	flagQuiet   bool
	flagLogFile string
	flagStorage string
)

// storageDir resolves the snapshot directory for a config dir: the --storage
// flag, then HAGATE_STORAGE, then <config>/.storage.
func storageDir(configDir string) string {
	if flagStorage != "" {
		return flagStorage
	}
	if env := os.Getenv("HAGATE_STORAGE"); env != "" {
		return env
	}
	return filepath.Join(configDir, ".storage")
}

func newRunner(configDir string) *validate.Runner {
	snap, warnings := registry.Load(storageDir(configDir))
	return &validate.Runner{Snapshot: snap, SnapshotWarnings: warnings}
}

// --- validate ---

var (
	validateFailIf  string
	validateJSON    bool
	validateVerbose bool
	validateRecord  bool
	validateHistDB  string
)

var validateCmd = &cobra.Command{
	Use:   "validate [config-dir]",
	Short: "Validate a configuration directory against the registry snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	configDir := "."
	if len(args) == 1 {
		configDir = args[0]
	}

	result, err := newRunner(configDir).RunDir(configDir)
	if err != nil {
		return err
	}

	if validateRecord {
		store, err := history.Open(historyPath(validateHistDB))
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Record(configDir, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "recorded run %s\n", id)
	}

	if validateJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(report.Render(result, validateVerbose))
	}

	if validateFailIf != "" {
		// The expression names the failure condition: true means fail.
		hit, err := gate.Eval(validateFailIf, result)
		if err != nil {
			return err
		}
		if hit {
			return fmt.Errorf("gate %q tripped", validateFailIf)
		}
		return nil
	}
	if !result.Verdict {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// --- registry ---

var registryCmd = &cobra.Command{
	Use:   "registry [config-dir]",
	Short: "Summarize the registry snapshot per domain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir := "."
		if len(args) == 1 {
			configDir = args[0]
		}
		dir := storageDir(configDir)
		snap, warnings := registry.Load(dir)
		if !snap.Available() {
			return fmt.Errorf("no registry snapshot at %s", dir)
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Source, w.Message)
		}
		fmt.Print(report.RegistryTable(snap))
		return nil
	},
}

// --- history ---

var historyDB string

func historyPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("HAGATE_HISTORY"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "hagate-history.db"
	}
	return filepath.Join(home, ".hagate", "history.db")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded validation runs",
}

var historyListLimit int

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent validation runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyPath(historyDB))
		if err != nil {
			return err
		}
		defer store.Close()
		runs, err := store.List(historyListLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}
		for _, run := range runs {
			verdict := "pass"
			if !run.Verdict {
				verdict = "FAIL"
			}
			fmt.Printf("%s  %s  %-4s  %d files, %d unknown, %d disabled, %d syntax\n",
				run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"),
				verdict, run.Files, run.Unknown, run.Disabled, run.SyntaxErrors)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print the full report of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyPath(historyDB))
		if err != nil {
			return err
		}
		defer store.Close()
		result, err := store.Show(args[0])
		if err != nil {
			return err
		}
		fmt.Print(report.RenderMarkdown(report.Markdown(result)))
		return nil
	},
}

var historyPruneAge string

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than --age",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := time.ParseDuration(historyPruneAge)
		if err != nil {
			return fmt.Errorf("invalid --age: %w", err)
		}
		store, err := history.Open(historyPath(historyDB))
		if err != nil {
			return err
		}
		defer store.Close()
		n, err := store.Prune(age)
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d run(s)\n", n)
		return nil
	},
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Work with the automation JSON Schema",
}

var schemaExportOut string

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the automation JSON Schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := validate.GenerateAutomationJSONSchema()
		if err != nil {
			return err
		}
		if schemaExportOut != "" {
			return os.WriteFile(schemaExportOut, append(data, '\n'), 0o644)
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hagate %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", "", "Registry snapshot directory (default <config>/.storage)")

	validateCmd.Flags().StringVar(&validateFailIf, "fail-if", "", "Fail when this expression is true, e.g. 'unknown > 0 || syntax_errors > 0'")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Emit the report as JSON")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "List valid references instead of summarizing them")
	validateCmd.Flags().BoolVar(&validateRecord, "record", false, "Record the run in the history database")
	validateCmd.Flags().StringVar(&validateHistDB, "history-db", "", "History database path")

	historyCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "History database path")
	historyListCmd.Flags().IntVarP(&historyListLimit, "limit", "n", 20, "Maximum runs to list")
	historyPruneCmd.Flags().StringVar(&historyPruneAge, "age", "720h", "Delete runs older than this duration")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	schemaExportCmd.Flags().StringVarP(&schemaExportOut, "out", "o", "", "Write the schema to a file instead of stdout")
	schemaCmd.AddCommand(schemaExportCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
