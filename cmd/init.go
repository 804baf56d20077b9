package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/talkboard/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize talkboard configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the board URL and data directory and writes a .talkboard.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
