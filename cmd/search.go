package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ytnotes/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Semantically search previously generated notes",
	Long:  `Searches the notes index using a natural language query. Requires embedding_provider to be configured.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 5, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, _, index, err := openHistory(cfg, loggerFromContext(cmd.Context()))
	if err != nil {
		return err
	}
	defer database.Close()

	results, err := index.Query(cmd.Context(), args[0], limit)
	if errors.Is(err, search.ErrDisabled) {
		return fmt.Errorf("%w\nSet embedding_provider in %s to enable search", err, cfgFile)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		if results == nil {
			results = []search.Result{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Println(strings.TrimSpace(search.FormatResults(results)))
	return nil
}
