package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ytnotes",
	Short: "Turn YouTube lectures into structured notes",
	Long: `ytnotes fetches the transcript of a YouTube lecture and asks an LLM to
turn it into structured notes. Use it from the terminal, run it as a web
app with ` + "`ytnotes serve`" + `, or expose it to AI agents over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(os.Stderr, level)
		log.SetDefault(logger)
		cmd.SetContext(withLogger(cmd.Context(), logger))
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".ytnotes.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
