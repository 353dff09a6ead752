// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giftring",
	Short: "GiftRing is the backend for group based gift exchanges",
	Long: `GiftRing is the backend service for group based gift exchanges.
It manages groups, memberships, secret giver/receiver matching, invites
and wishlists through a REST API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
