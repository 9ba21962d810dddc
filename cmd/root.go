package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "harsi-trading-bot",
	Short: "Telegram bot for journaling HARSI swing trades",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
