package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thinktwice-app/thinktwice/internal/cli"
	"github.com/thinktwice-app/thinktwice/internal/model"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
		Long:  `Savings goals are funded by the money you keep when you skip an impulse. Amounts are recomputed from the full log on every change.`,
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(removeGoalCmd())
	cmd.AddCommand(reallocateGoalsCmd())
	cmd.AddCommand(assignGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			progress, err := eng.GetGoalProgress(ctx)
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}

			if len(progress) == 0 {
				fmt.Println(cli.InfoStyle.Render("No goals yet. Use 'thinktwice goals add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tGOAL\tFUNDED\tTARGET\tPROGRESS")
			for _, p := range progress {
				status := fmt.Sprintf("%s %.0f%%", cli.ProgressBar(p.Percent, 15), p.Percent)
				if p.Goal.IsCompleted {
					status = cli.SuccessStyle.Render("completed " + cli.SuccessIcon)
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\n",
					p.Goal.ID[:8], p.Goal.Title, p.Goal.CurrentAmount, p.Goal.TargetAmount, status)
			}

			return nil
		},
	}
}

func addGoalCmd() *cobra.Command {
	var (
		target   float64
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a savings goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if target <= 0 {
				return fmt.Errorf("--target must be positive")
			}

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var filter *model.ImpulseCategory
			if category != "" {
				c := model.ImpulseCategory(strings.ToUpper(category))
				if !model.ValidCategory(c) {
					return fmt.Errorf("unknown category %q", category)
				}
				filter = &c
			}

			g := model.NewSavingsGoal(strings.Join(args, " "), target, filter)
			if err := eng.CreateGoal(ctx, g); err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Goal %q created (target %.2f)", g.Title, g.TargetAmount)))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&target, "target", "t", 0, "target amount (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only fund from skipped impulses in this category")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func removeGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id, err := resolveGoalID(ctx, eng, args[0])
			if err != nil {
				return err
			}

			if err := eng.DeleteGoal(ctx, id); err != nil {
				return fmt.Errorf("failed to delete goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Goal removed."))
			return nil
		},
	}
}

func reallocateGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reallocate",
		Short: "Replay the full log and recompute goal amounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := eng.ReallocateGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to reallocate: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Reallocated across %d goals.", len(goals))))
			return nil
		},
	}
}

func assignGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <impulse-id> <goal-id>",
		Short: "Bind a skipped impulse to a specific goal",
		Long:  `Overwrite which goal claims a skipped impulse's value. Takes effect through a full replay.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			impulse, err := resolveImpulse(ctx, store, args[0])
			if err != nil {
				return err
			}
			goalID, err := resolveGoalID(ctx, eng, args[1])
			if err != nil {
				return err
			}

			if err := eng.AssignContribution(ctx, impulse.ID, goalID); err != nil {
				return fmt.Errorf("failed to assign: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Contribution reassigned."))
			return nil
		},
	}
}
