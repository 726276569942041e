package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/homecfg/hagate/pkg/gate"
	"github.com/homecfg/hagate/pkg/validate"
)

var (
	watchInterval string
	watchFailIf   string
	watchStopOn   string
)

var watchCmd = &cobra.Command{
	Use:   "watch [config-dir]",
	Short: "Re-validate the configuration at an interval",
	Long: "watch re-runs validation on a timer and prints one status line " +
		"per run, reloading the registry snapshot each time so edits to " +
		"either side are picked up.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInterval, "interval", "30s", "Delay between runs")
	watchCmd.Flags().StringVar(&watchFailIf, "fail-if", "", "Fail a run when this expression is true")
	watchCmd.Flags().StringVar(&watchStopOn, "stop-on", "", "Exit on the first 'fail' or 'pass' run")
}

func runWatch(cmd *cobra.Command, args []string) error {
	configDir := "."
	if len(args) == 1 {
		configDir = args[0]
	}
	interval, err := time.ParseDuration(watchInterval)
	if err != nil {
		return fmt.Errorf("invalid --interval: %w", err)
	}
	switch watchStopOn {
	case "", "fail", "pass":
	default:
		return fmt.Errorf("invalid --stop-on %q: expected 'fail' or 'pass'", watchStopOn)
	}

	run := 0
	lastVerdict := true
	for {
		run++
		ts := time.Now().Format("15:04:05")

		// fresh snapshot every run
		result, err := newRunner(configDir).RunDir(configDir)
		if err != nil {
			return err
		}

		pass := result.Verdict
		if watchFailIf != "" {
			// The expression names the failure condition: true means fail.
			hit, err := gate.Eval(watchFailIf, result)
			if err != nil {
				return err
			}
			pass = !hit
		}

		counts := result.Counts()
		status := "pass"
		if !pass {
			status = "FAIL"
		}
		marker := " "
		if run > 1 && pass != lastVerdict {
			marker = "*" // verdict flipped since the previous run
		}
		fmt.Printf("%s %s run %-3d %s  %d unknown, %d disabled, %d syntax\n",
			ts, marker, run, status,
			counts[validate.ClassUnknown], counts[validate.ClassDisabled],
			result.SyntaxErrorCount())
		lastVerdict = pass

		if watchStopOn == "fail" && !pass {
			return fmt.Errorf("validation failed on run %d", run)
		}
		if watchStopOn == "pass" && pass {
			return nil
		}
		time.Sleep(interval)
	}
}
