package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thinktwice-app/thinktwice/internal/cli"
)

func achievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show unlocked achievements, XP, and level",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Checking is idempotent; anything earned since the last
			// mutation unlocks here.
			result, err := eng.CheckAchievements(ctx)
			if err != nil {
				return fmt.Errorf("failed to check achievements: %w", err)
			}
			for _, unlocked := range result.NewlyUnlocked {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Unlocked %s %s (+%d XP)", unlocked.Icon, unlocked.Title, unlocked.XPReward)))
			}

			level := eng.GetUserLevel(ctx)
			fmt.Println(cli.RenderBox(
				cli.TrophyIcon+" Level",
				fmt.Sprintf("Level %d  %s  %d/%d XP to next",
					level.Level, cli.ProgressBar(level.Percent, 20), level.XPInLevel, level.XPInLevel+level.XPToNext),
			))

			recent := eng.GetRecentAchievements(ctx)
			if len(recent) == 0 {
				fmt.Println(cli.InfoStyle.Render("No achievements yet. Skip an impulse to earn your first."))
				return nil
			}

			fmt.Println(cli.BoldStyle.Render("Recent unlocks:"))
			for _, achievement := range recent {
				fmt.Printf("  %s %s (%s) — %s\n",
					achievement.Icon, achievement.Title, achievement.Rarity,
					achievement.UnlockedAt.Format("2006-01-02"))
			}

			return nil
		},
	}

	cmd.AddCommand(achievementProgressCmd())

	return cmd
}

func achievementProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show progress toward every achievement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			progress, err := eng.GetAchievementProgress(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute progress: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ACHIEVEMENT\tRARITY\tPROGRESS\tXP")
			for _, p := range progress {
				bar := cli.ProgressBar(p.Percent, 15)
				if p.Unlocked {
					bar = cli.SuccessStyle.Render(bar + " ✓")
				} else {
					bar = fmt.Sprintf("%s %.0f%%", bar, p.Percent)
				}
				fmt.Fprintf(w, "%s %s\t%s\t%s\t%d\n",
					p.Definition.Icon, p.Definition.Title, p.Definition.Rarity, bar, p.Definition.XPReward)
			}

			return nil
		},
	}
}
