package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "insulinctl",
	Short: "Insulin dose calculator tools",
	Long:  `Checks the service configuration and runs the dose calculator from the command line.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  .env файл не найден: %v\n", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newValidateConfigCmd())
	rootCmd.AddCommand(newCalculateCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
