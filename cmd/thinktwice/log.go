package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/thinktwice-app/thinktwice/internal/cli"
	"github.com/thinktwice-app/thinktwice/internal/model"
)

func logCmd() *cobra.Command {
	var (
		category string
		price    float64
		emotion  string
		urgency  string
		cooldown time.Duration
	)

	cmd := &cobra.Command{
		Use:   "log <title>",
		Short: "Log a new purchase impulse",
		Long:  `Record a purchase impulse and lock it behind a cool-down period. You decide what to do with it once the cool-down ends.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			impulse := model.NewImpulse(strings.Join(args, " "), model.ImpulseCategory(strings.ToUpper(category)), cooldown)
			if cmd.Flags().Changed("price") {
				impulse.Price = &price
			}
			if emotion != "" {
				impulse.Emotion = model.Emotion(strings.ToUpper(emotion))
			}
			if urgency != "" {
				impulse.Urgency = model.Urgency(strings.ToUpper(urgency))
			}

			if err := eng.LogImpulse(ctx, &impulse); err != nil {
				return fmt.Errorf("failed to log impulse: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Locked %q until %s", impulse.Title, impulse.ReviewAt.Format("Mon Jan 2 15:04"))))
			fmt.Println(cli.SubtleStyle.Render("id: " + impulse.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "OTHER", "impulse category (clothing, electronics, food, ...)")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "price of the item")
	cmd.Flags().StringVarP(&emotion, "emotion", "e", "", "how you feel right now (excited, stressed, bored, sad, fomo, happy, neutral)")
	cmd.Flags().StringVarP(&urgency, "urgency", "u", "", "how urgent it feels (low, medium, high)")
	cmd.Flags().DurationVar(&cooldown, "cooldown", 48*time.Hour, "cool-down period before you may decide")

	return cmd
}

func listCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List impulses",
		Long:  `Display logged impulses. By default only impulses still in their cool-down window are shown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			impulses, err := store.ListImpulses(ctx)
			if err != nil {
				return fmt.Errorf("failed to list impulses: %w", err)
			}

			now := time.Now()
			if !all {
				var pending []model.Impulse
				for _, impulse := range impulses {
					if impulse.Status == model.StatusLocked {
						pending = append(pending, impulse)
					}
				}
				impulses = pending
			}

			if len(impulses) == 0 {
				fmt.Println(cli.InfoStyle.Render("Nothing here. Use 'thinktwice log' when the urge strikes."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tSTATUS\tREVIEW AT")
			for _, impulse := range impulses {
				status := string(impulse.Status)
				if impulse.CoolingDown(now) {
					status = "COOLING"
				}
				price := "-"
				if impulse.Price != nil {
					price = fmt.Sprintf("%.2f", *impulse.Price)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					impulse.ID[:8], impulse.Title, impulse.Category, price,
					status, impulse.ReviewAt.Format("2006-01-02 15:04"))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include decided impulses")

	return cmd
}
