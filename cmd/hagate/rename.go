package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/homecfg/hagate/pkg/registry"
	"github.com/homecfg/hagate/pkg/rename"
	"github.com/homecfg/hagate/pkg/validate"
)

var (
	renameConfigDir string
	renameYes       bool
	renameDryRun    bool
)

var renameCmd = &cobra.Command{
	Use:   "rename [old-entity-id] [new-entity-id]",
	Short: "Rewrite an entity id across all configuration files",
	Long: "rename rewrites every reference to an entity id across the " +
		"configuration directory, matching whole identifiers only so " +
		"sensor.door never touches sensor.door_contact.\n\n" +
		"Batch mode takes 'old,new' pairs instead:\n" +
		"  hagate rename sensor.a,sensor.b light.x,light.y",
	Args: cobra.MinimumNArgs(1),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().StringVarP(&renameConfigDir, "config", "c", ".", "Configuration directory")
	renameCmd.Flags().BoolVarP(&renameYes, "yes", "y", false, "Apply without asking")
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "Show the plan without writing")
}

func runRename(cmd *cobra.Command, args []string) error {
	pairs, err := renamePairs(args)
	if err != nil {
		return err
	}

	snap, _ := registry.Load(storageDir(renameConfigDir))
	for _, pair := range pairs {
		if err := renameOne(pair[0], pair[1], snap); err != nil {
			return err
		}
	}
	return nil
}

// renamePairs accepts either the two-argument form (old new) or any number
// of comma-joined "old,new" pairs.
func renamePairs(args []string) ([][2]string, error) {
	if !strings.Contains(args[0], ",") {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected old and new entity id")
		}
		return [][2]string{{args[0], args[1]}}, nil
	}
	var pairs [][2]string
	for _, arg := range args {
		old, updated, ok := strings.Cut(arg, ",")
		if !ok || old == "" || updated == "" {
			return nil, fmt.Errorf("invalid pair %q: expected old,new", arg)
		}
		pairs = append(pairs, [2]string{old, updated})
	}
	return pairs, nil
}

func renameOne(oldID, newID string, snap *registry.Snapshot) error {
	paths, err := validate.Discover(renameConfigDir)
	if err != nil {
		return err
	}

	plan, err := rename.New(oldID, newID, snap, paths)
	if err != nil {
		return err
	}
	if len(plan.Changes) == 0 {
		fmt.Printf("no references to %s found\n", oldID)
		return nil
	}

	fmt.Printf("rename %s -> %s\n", plan.OldID, plan.NewID)
	for _, c := range plan.Changes {
		fmt.Printf("  %s: %d occurrence(s)\n", c.Path, c.Occurrences)
	}
	if renameDryRun {
		return nil
	}

	if !renameYes {
		ok, err := confirm(fmt.Sprintf("rewrite %d occurrence(s) in %d file(s)?",
			plan.Total(), len(plan.Changes)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := plan.Apply(); err != nil {
		return err
	}
	fmt.Printf("done: %d file(s) updated\n", len(plan.Changes))
	if _, ok := snap.Entity(oldID); ok {
		fmt.Println("note: the registry still names the old id; rename the entity in the UI as well")
	}
	return nil
}

// confirm prompts on the terminal and accepts y/yes.
func confirm(question string) (bool, error) {
	rl, err := readline.New(question + " [y/N] ")
	if err != nil {
		return false, fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
