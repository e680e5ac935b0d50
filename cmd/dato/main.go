package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/dato-client/cmd/dato/commands"
	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dato",
	Short: "DatoCMS Content Management API CLI",
	Long: `A command-line interface for the DatoCMS Content Management API.

Browse and edit models, records, assets, environments and webhooks of your
projects, and run a webhook receiver that forwards events to NATS or Kafka.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.dato/config.yml)")
	rootCmd.PersistentFlags().StringP("project", "p", "", "configured project to use")
	rootCmd.PersistentFlags().StringP("token", "t", "", "API token (overrides the project token)")
	rootCmd.PersistentFlags().StringP("environment", "e", "", "sandbox environment (default is the primary environment)")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewProjectsCommand())
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewSiteCommand())
	rootCmd.AddCommand(commands.NewModelsCommand())
	rootCmd.AddCommand(commands.NewFieldsCommand())
	rootCmd.AddCommand(commands.NewItemsCommand())
	rootCmd.AddCommand(commands.NewUploadsCommand())
	rootCmd.AddCommand(commands.NewEnvironmentsCommand())
	rootCmd.AddCommand(commands.NewWebhooksCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewRolesCommand())
	rootCmd.AddCommand(commands.NewTokensCommand())
	rootCmd.AddCommand(commands.NewMaintenanceCommand())
	rootCmd.AddCommand(commands.NewJobsCommand())
	rootCmd.AddCommand(commands.NewDashboardCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, constants.ConfigDirName)

		// Search config in ~/.dato/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// DATO_TOKEN, DATO_PROJECT, DATO_ENVIRONMENT, ...
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
