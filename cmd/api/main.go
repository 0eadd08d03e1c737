package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dayflow/core/cmd/api/commands"
)

// @title Dayflow API
// @version 1.0
// @description Personal task and folder management API with day and week views

// @host localhost:5555
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "dayflow",
		Short: "Dayflow API Server",
		Long:  `Dayflow is a personal task manager that keeps tasks in folders, a flat list, a today list and weekday buckets, all kept in sync.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
