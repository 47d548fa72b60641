package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "employer-subscriptions-service",
	Short: "Employer subscription, quota and payment service",
	Long:  "Backend service managing employer subscription packages, job posting quotas, promotions and VNPay payments.",
}

// Execute runs the root command. It is the single entry point used by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
