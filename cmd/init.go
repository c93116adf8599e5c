package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ytnotes/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ytnotes configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick an LLM provider, model and server settings, and writes them to .ytnotes.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
