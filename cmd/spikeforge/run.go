// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"spikeforge/internal/issue"

	"github.com/spf13/cobra"
)

var (
	runForce bool

	// runCmd executes an arbitrary task from the forgefile. Bare
	// invocation lists the declared tasks.
	runCmd = &cobra.Command{
		Use:   "run [task-name]",
		Short: "Run a task from the forgefile",
		Long: `Run a task declared in the forgefile.

Tasks with a target are skipped when the target is newer than every
source; use --force to run them anyway. Dependencies run first.

Use 'spikeforge run' without arguments to list all available tasks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listTasks()
			}
			return runNamedTask(cmd, args[0])
		},
		ValidArgsFunction: completeTasks,
	}
)

func init() {
	runCmd.Flags().BoolVarP(&runForce, "force", "B", false, "run even if the target is up to date")
}

func listTasks() error {
	ff, err := loadForgefile()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Tasks") + SubtitleStyle.Render(" ("+ff.FilePath+")"))
	for i := range ff.Tasks {
		t := &ff.Tasks[i]
		line := "  " + TaskStyle.Render(t.Name)
		if t.Description != "" {
			line += "  " + SubtitleStyle.Render(t.Description)
		}
		fmt.Println(line)
	}
	return nil
}

func runNamedTask(cmd *cobra.Command, name string) error {
	ff, err := loadForgefile()
	if err != nil {
		return err
	}

	if ff.Find(name) == nil {
		return issue.NewErrorContext().
			WithOperation("run task").
			WithResource(name).
			WithSuggestion("Run 'spikeforge run' to list available tasks").
			Wrap(fmt.Errorf("task %q not found in %s", name, ff.FilePath)).
			BuildError()
	}

	return runTask(cmd.Context(), newEngine(ff, runForce), name)
}

// completeTasks provides shell completion for task names.
func completeTasks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ff, err := loadForgefile()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return ff.TaskNames(), cobra.ShellCompDirectiveNoFileComp
}
