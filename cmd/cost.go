package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ytnotes/internal/config"
	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/llm"
	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

// assumedOutputRatio approximates note length relative to the prompt.
const assumedOutputRatio = 0.25

var costCmd = &cobra.Command{
	Use:   "cost [youtube-url]",
	Short: "Show API spend, or estimate the cost of one video",
	Long: `Without arguments, summarizes the notes generated so far and what they cost.
With a URL, fetches the transcript and estimates the cost of generating notes
for it with the configured model, without calling the LLM.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCost,
}

func init() {
	costCmd.Flags().String("style", string(notes.StyleDefault), "note style to estimate for")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		style, _ := cmd.Flags().GetString("style")
		fetcher := youtube.NewFetcher(
			youtube.WithLanguages(cfg.TranscriptLanguages()...),
			youtube.WithLogger(logger),
		)
		return estimateVideo(ctx, cfg, fetcher, args[0], notes.ParseStyle(style))
	}

	database, hist, _, err := openHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := hist.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

func estimateVideo(ctx context.Context, cfg *config.Config, fetcher youtube.TranscriptFetcher, rawURL string, style notes.Style) error {
	videoID, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		return notes.ErrInvalidURL
	}
	transcript, err := fetcher.Fetch(ctx, videoID)
	if err != nil {
		return &notes.TranscriptError{VideoID: videoID, Err: err}
	}

	input := llm.EstimateTokens(notes.FormatPrompt(transcript, style))
	output := int(float64(input) * assumedOutputRatio)
	cost := llm.EstimateCost(cfg.Model, input, output)

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Video:             %s\n", videoID)
	fmt.Printf("  Style:             %s\n", style.Label())
	fmt.Printf("  Transcript chars:  %d\n", len(transcript))
	fmt.Printf("  Input tokens:      ~%d\n", input)
	fmt.Printf("  Output tokens:     ~%d\n", output)
	fmt.Printf("  Estimated cost:    $%.4f\n", cost)
	fmt.Println()
	fmt.Printf("  Provider: %s\n", cfg.Provider)
	fmt.Printf("  Model:    %s\n", cfg.Model)
	return nil
}

func printStats(stats *history.Stats) {
	fmt.Println("Usage")
	fmt.Println("=====")
	fmt.Printf("  Notes generated:   %d\n", stats.TotalNotes)
	fmt.Printf("  Unique videos:     %d\n", stats.UniqueVideos)
	fmt.Printf("  Total spend:       $%.4f\n", stats.TotalCostUSD)
	if len(stats.ByStyle) == 0 {
		return
	}

	styles := make([]string, 0, len(stats.ByStyle))
	for s := range stats.ByStyle {
		styles = append(styles, s)
	}
	sort.Strings(styles)

	fmt.Println()
	fmt.Println("  By style:")
	for _, s := range styles {
		fmt.Printf("    %-20s %d\n", notes.ParseStyle(s).Label(), stats.ByStyle[s])
	}
}
