package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thinktwice-app/thinktwice/internal/cli"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/service"
)

func decideCmd() *cobra.Command {
	var (
		skip  bool
		buy   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "decide <id>",
		Short: "Resolve an impulse after its cool-down",
		Long:  `Decide what happens to a locked impulse: skip it (--skip) or go through with the purchase (--buy). IDs may be abbreviated to a unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if skip == buy {
				return fmt.Errorf("exactly one of --skip or --buy is required")
			}

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			impulse, err := resolveImpulse(ctx, store, args[0])
			if err != nil {
				return err
			}

			if impulse.CoolingDown(time.Now()) && !force {
				remaining := time.Until(impulse.ReviewAt).Round(time.Minute)
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%q is still cooling down (%s left). Use --force to decide early.", impulse.Title, remaining)))
				return nil
			}

			status := model.StatusCancelled
			if buy {
				status = model.StatusExecuted
			}

			if err := eng.Decide(ctx, impulse.ID, status); err != nil {
				return fmt.Errorf("failed to record decision: %w", err)
			}

			if status == model.StatusCancelled {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Skipped %q. That money stays yours.", impulse.Title)))
			} else {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Bought %q. Run 'thinktwice review %s' later to record how it felt.", impulse.Title, impulse.ID[:8])))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skip, "skip", false, "cancel the purchase")
	cmd.Flags().BoolVar(&buy, "buy", false, "go through with the purchase")
	cmd.Flags().BoolVar(&force, "force", false, "decide before the cool-down ends")

	return cmd
}

func reviewCmd() *cobra.Command {
	var (
		feeling string
		rating  int
	)

	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Record how a purchase turned out",
		Long:  `Attach post-purchase feedback to an executed impulse: a final feeling and an optional 1-5 regret rating.`,
		Args:  cobra.ExactArgs(1),
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

			var regretRating *int
			if cmd.Flags().Changed("rating") {
				regretRating = &rating
			}

			finalFeeling := model.FinalFeeling(strings.ToUpper(feeling))
			if err := eng.RecordFollowUp(ctx, impulse.ID, finalFeeling, regretRating); err != nil {
				return fmt.Errorf("failed to record review: %w", err)
			}

			if finalFeeling == model.FeelingRegret {
				fmt.Println(cli.InfoStyle.Render("Noted. The predictor learns from this one."))
			} else {
				fmt.Println(cli.FormatSuccess("Review recorded."))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&feeling, "feeling", "f", "NONE", "final feeling (relief, satisfied, indifferent, regret)")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "regret rating from 1 (none) to 5 (deep)")

	return cmd
}

// resolveImpulse finds an impulse by full ID or unique prefix.
func resolveImpulse(ctx context.Context, source service.ImpulseSource, idOrPrefix string) (*model.Impulse, error) {
	impulses, err := source.ListImpulses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list impulses: %w", err)
	}

	var matches []model.Impulse
	for _, impulse := range impulses {
		if impulse.ID == idOrPrefix {
			found := impulse
			return &found, nil
		}
		if strings.HasPrefix(impulse.ID, idOrPrefix) {
			matches = append(matches, impulse)
		}
	}

	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("no impulse matches %q", idOrPrefix)
	default:
		return nil, fmt.Errorf("%q is ambiguous: %d impulses match", idOrPrefix, len(matches))
	}
}
