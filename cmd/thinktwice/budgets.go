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

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage spending budgets",
		Long:  `Budgets track executed-impulse spend over recurring weekly, monthly, or yearly windows.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(addBudgetCmd())
	cmd.AddCommand(removeBudgetCmd())
	cmd.AddCommand(budgetStatusCmd())
	cmd.AddCommand(budgetAlertsCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with current-period spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			progress, err := eng.GetAllBudgetProgress(ctx)
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}

			if len(progress) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets yet. Use 'thinktwice budgets add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tBUDGET\tPERIOD\tSPENT\tLIMIT\tUSED\tDAYS LEFT")
			for _, p := range progress {
				used := fmt.Sprintf("%.0f%%", p.PercentageUsed)
				if p.IsOverBudget {
					used = cli.ErrorStyle.Render(used)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s\t%d\n",
					p.Budget.ID[:8], p.Budget.Name, p.Budget.Period,
					p.Spent, p.Budget.Amount, used, p.DaysRemaining)
			}

			return nil
		},
	}
}

func addBudgetCmd() *cobra.Command {
	var (
		amount   float64
		period   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a budget",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if amount <= 0 {
				return fmt.Errorf("--amount must be positive")
			}

			budgetPeriod := model.BudgetPeriod(strings.ToUpper(period))
			switch budgetPeriod {
			case model.PeriodWeekly, model.PeriodMonthly, model.PeriodYearly:
			default:
				return fmt.Errorf("unknown period %q (weekly, monthly, yearly)", period)
			}

			budgetType := model.BudgetTypeTotal
			var filter *model.ImpulseCategory
			if category != "" {
				c := model.ImpulseCategory(strings.ToUpper(category))
				if !model.ValidCategory(c) {
					return fmt.Errorf("unknown category %q", category)
				}
				filter = &c
				budgetType = model.BudgetTypeCategory
			}

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			b := model.NewBudget(strings.Join(args, " "), budgetType, budgetPeriod, amount, filter)
			if err := eng.CreateBudget(ctx, b); err != nil {
				return fmt.Errorf("failed to create budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget %q created (%.2f %s)", b.Name, b.Amount, strings.ToLower(string(b.Period)))))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "budget amount (required)")
	cmd.Flags().StringVarP(&period, "period", "p", "monthly", "budget period (weekly, monthly, yearly)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "restrict to one impulse category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func removeBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id, err := resolveBudgetID(ctx, eng, args[0])
			if err != nil {
				return err
			}

			if err := eng.DeleteBudget(ctx, id); err != nil {
				return fmt.Errorf("failed to delete budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Budget removed."))
			return nil
		},
	}
}

func budgetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show detailed progress for one budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id, err := resolveBudgetID(ctx, eng, args[0])
			if err != nil {
				return err
			}

			p, err := eng.GetBudgetProgress(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get budget progress: %w", err)
			}

			fmt.Println(cli.BoldStyle.Render(p.Budget.Name))
			fmt.Printf("  Period:    %s (%s — %s)\n",
				strings.ToLower(string(p.Budget.Period)),
				p.PeriodStart.Format("Jan 2"), p.PeriodEnd.Format("Jan 2"))
			if p.Budget.Category != nil {
				fmt.Printf("  Category:  %s\n", *p.Budget.Category)
			}
			fmt.Printf("  Spent:     %.2f of %.2f\n", p.Spent, p.Budget.Amount)
			fmt.Printf("  Progress:  %s %.0f%%\n", cli.ProgressBar(p.PercentageUsed, 20), p.PercentageUsed)
			fmt.Printf("  Days left: %d\n", p.DaysRemaining)

			if p.IsOverBudget {
				fmt.Println(cli.FormatError(fmt.Sprintf("Over budget by %.2f", p.Spent-p.Budget.Amount)))
			} else {
				fmt.Printf("  Remaining: %.2f\n", p.Remaining)
			}

			return nil
		},
	}
}

func budgetAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show active budget alerts",
		Long:  `Alerts are recomputed on every call at the 75%, 90%, and 100% thresholds; they carry no memory between runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			alerts, err := eng.GetBudgetAlerts(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute alerts: %w", err)
			}

			if len(alerts) == 0 {
				fmt.Println(cli.FormatSuccess("All budgets under control."))
				return nil
			}

			for _, alert := range alerts {
				switch alert.Level {
				case model.AlertExceeded:
					fmt.Println(cli.FormatError(alert.Message))
				case model.AlertCritical:
					fmt.Println(cli.FormatError(alert.Message))
				default:
					fmt.Println(cli.FormatWarning(alert.Message))
				}
			}

			return nil
		},
	}
}
