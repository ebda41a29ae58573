package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thinktwice-app/thinktwice/internal/cli"
	"github.com/thinktwice-app/thinktwice/internal/model"
)

func scoreCmd() *cobra.Command {
	var historyDays int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show your impulse control score",
		Long:  `Compute the 0-100 impulse control score from your full decision history, with trend and optional day-by-day reconstruction.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			result, err := eng.GetScore(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute score: %w", err)
			}

			fmt.Println(cli.RenderScore(result))

			if historyDays > 0 {
				history, err := eng.GetScoreHistory(ctx, historyDays)
				if err != nil {
					return fmt.Errorf("failed to reconstruct history: %w", err)
				}
				for _, point := range history {
					fmt.Printf("%s  %s %3d\n",
						point.Date.Format("Jan 02"),
						cli.ProgressBar(float64(point.Score), 25),
						point.Score)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&historyDays, "history", 0, "also reconstruct the score for the last N days")

	return cmd
}

func predictCmd() *cobra.Command {
	var (
		category string
		price    float64
		emotion  string
		hour     int
	)

	cmd := &cobra.Command{
		Use:   "predict <title>",
		Short: "Predict regret risk for a purchase you are considering",
		Long:  `Score a prospective purchase against your history before logging it. Nothing is persisted.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			draft := model.DraftImpulse{
				Title:    strings.Join(args, " "),
				Category: model.ImpulseCategory(strings.ToUpper(category)),
				Emotion:  model.Emotion(strings.ToUpper(emotion)),
				Hour:     hour,
			}
			if cmd.Flags().Changed("price") {
				draft.Price = &price
			}
			if !cmd.Flags().Changed("hour") {
				draft.Hour = time.Now().Hour()
			}

			prediction, err := eng.PredictRegret(ctx, draft)
			if err != nil {
				return fmt.Errorf("failed to predict: %w", err)
			}

			fmt.Println(cli.RenderPrediction(prediction))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "OTHER", "impulse category")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "price of the item")
	cmd.Flags().StringVarP(&emotion, "emotion", "e", "", "how you feel right now")
	cmd.Flags().IntVar(&hour, "hour", 0, "hour of day (defaults to now)")

	return cmd
}
