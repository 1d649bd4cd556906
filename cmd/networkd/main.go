// Package main implements networkd, the collaboration network service and
// its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "networkd: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "networkd",
	Short: "Collaboration network service",
	Long: `networkd stores member profiles, projects and collaborations, and ranks
members against each other by shared goals, values and skills.

Configuration is read from the environment (PORT, BACKEND, REDIS_ADDR, ...).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(matchCmd)
}
