package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/render"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage previously generated notes",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated notes, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the notes of one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records older than a given age",
	RunE:  runHistoryPrune,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().Int("limit", 20, "maximum number of records")
		c.Flags().String("video", "", "only records for this video id")
		c.Flags().String("style", "", "only records with this style")
		c.Flags().Bool("json", false, "output records as JSON")
	}
	historyShowCmd.Flags().String("format", "text", "output format: text or html")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete records older than this")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openStore(cmd *cobra.Command) (*history.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, store, _, err := openHistory(cfg, loggerFromContext(cmd.Context()))
	if err != nil {
		return nil, nil, err
	}
	return store, func() { database.Close() }, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	videoID, _ := cmd.Flags().GetString("video")
	style, _ := cmd.Flags().GetString("style")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	records, err := store.List(cmd.Context(), history.ListFilter{VideoID: videoID, Style: style, Limit: limit})
	if err != nil {
		return err
	}

	if jsonOutput {
		if records == nil {
			records = []history.Record{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No notes yet. Run `ytnotes generate` to create some.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tVIDEO\tSTYLE\tCOST")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.4f\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.VideoID, r.Style, r.CostUSD)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch format {
	case "html":
		page, err := render.Page("Notes for "+rec.VideoID, rec.Notes)
		if err != nil {
			return err
		}
		fmt.Println(page)
	case "text", "":
		fmt.Printf("# %s (%s, %s)\n\n", rec.YouTubeURL, rec.Style, rec.CreatedAt.Local().Format(time.RFC1123))
		fmt.Println(rec.Notes)
	default:
		return fmt.Errorf("unknown format %q (want text or html)", format)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	store, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d record(s) older than %s\n", n, olderThan)
	return nil
}
