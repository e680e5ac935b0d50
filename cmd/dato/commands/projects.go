package commands

import (
	"fmt"
	"os"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/spf13/cobra"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage configured projects",
		Long:    "Add, list, select and remove the DatoCMS projects the CLI knows about",
	}

	cmd.AddCommand(newProjectsAddCommand())
	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsUseCommand())
	cmd.AddCommand(newProjectsRemoveCommand())

	return cmd
}

func newProjectsAddCommand() *cobra.Command {
	var project ProjectConfig

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a project",
		Long:  "Add a project. The first project added becomes the current one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := addProject(config, args[0], project)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Added project %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&project.Token, "api-token", "", "full-access or read-only API token")
	cmd.Flags().StringVar(&project.Environment, "env", "", "default sandbox environment")
	cmd.Flags().StringVar(&project.BaseURL, "base-url", "", "API endpoint (default is "+constants.DefaultBaseURL+")")

	return cmd
}

func addProject(config *Config, name string, project ProjectConfig) error {
	if _, exists := config.Projects[name]; exists {
		return fmt.Errorf("project '%s': %w", name, constants.ErrProjectExists)
	}

	config.Projects[name] = &project

	if config.CurrentProject == "" {
		config.CurrentProject = name
	}

	return nil
}

func newProjectsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskConfig(loadConfig())

			if len(config.Projects) == 0 {
				return constants.ErrNoProjectsConfigured
			}

			return outputResult(config.Projects, func(map[string]*ProjectConfig) error {
				return renderProjectsTable(config)
			})
		},
	}
}

func newProjectsUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Select the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, keyCurrentProject, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Now using project %s\n", args[0])

			return nil
		},
	}
}

func newProjectsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := removeProject(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Removed project %s\n", args[0])

			return nil
		},
	}
}

func removeProject(config *Config, name string) error {
	if _, exists := config.Projects[name]; !exists {
		return fmt.Errorf("project '%s': %w", name, constants.ErrProjectNotFound)
	}

	delete(config.Projects, name)

	if config.CurrentProject == name {
		config.CurrentProject = ""
	}

	return nil
}
