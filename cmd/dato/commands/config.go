package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fivetwenty-io/dato-client/internal/auth"
	"github.com/fivetwenty-io/dato-client/internal/client"
	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/fivetwenty-io/dato-client/pkg/datocms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Configuration keys.
const (
	keyOutput         = "output"
	keyCurrentProject = "current_project"
	keyDashboardToken = "dashboard_token"
	keyToken          = "token"
	keyEnvironment    = "environment"
	keyBaseURL        = "base_url"
)

// Config represents the CLI configuration.
type Config struct {
	Projects       map[string]*ProjectConfig `json:"projects,omitempty"        yaml:"projects,omitempty"`
	CurrentProject string                    `json:"current_project,omitempty" yaml:"current_project,omitempty"`

	// Global settings
	Output         string `json:"output,omitempty"          yaml:"output,omitempty"`
	DashboardToken string `json:"dashboard_token,omitempty" yaml:"dashboard_token,omitempty"`
}

// ProjectConfig represents the settings of one DatoCMS project.
type ProjectConfig struct {
	Token       string `json:"token,omitempty"       yaml:"token,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	BaseURL     string `json:"base_url,omitempty"    yaml:"base_url,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the DatoCMS CLI configuration. Project keys apply to --project or the current project.",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with tokens masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskConfig(loadConfig())

			return outputResult(config, displayConfigTable)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Global keys: output, current_project, dashboard_token.
Project keys: token, environment, base_url.`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", args[0])

			return nil
		},
	}
}

// setConfigValue applies key=value to config. An empty value clears the key.
func setConfigValue(config *Config, key, value string) error {
	switch key {
	case keyOutput:
		if value != "" && !isValidOutput(value) {
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, value)
		}

		config.Output = value
	case keyCurrentProject:
		if value != "" {
			if _, ok := config.Projects[value]; !ok {
				return fmt.Errorf("project '%s': %w", value, constants.ErrProjectNotFound)
			}
		}

		config.CurrentProject = value
	case keyDashboardToken:
		config.DashboardToken = value
	case keyToken, keyEnvironment, keyBaseURL:
		project, _, err := selectedProject(config)
		if err != nil {
			return err
		}

		switch key {
		case keyToken:
			project.Token = value
		case keyEnvironment:
			project.Environment = value
		default:
			project.BaseURL = value
		}
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func loadConfig() *Config {
	config := &Config{
		Projects:       make(map[string]*ProjectConfig),
		CurrentProject: viper.GetString(keyCurrentProject),
		Output:         viper.GetString(keyOutput),
		DashboardToken: viper.GetString(keyDashboardToken),
	}

	projectsRaw := viper.GetStringMap("projects")
	for name, projectRaw := range projectsRaw {
		if projectMap, ok := projectRaw.(map[string]interface{}); ok {
			config.Projects[name] = parseProjectConfig(projectMap)
		}
	}

	return config
}

// parseProjectConfig parses a project configuration from a map.
func parseProjectConfig(projectMap map[string]interface{}) *ProjectConfig {
	project := &ProjectConfig{}

	fields := map[string]*string{
		keyToken:       &project.Token,
		keyEnvironment: &project.Environment,
		keyBaseURL:     &project.BaseURL,
	}

	for key, field := range fields {
		if value, ok := projectMap[key].(string); ok {
			*field = value
		}
	}

	return project
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if config.Output == constants.FormatTable {
		config.Output = ""
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Reload so later reads in this process see the new values
	viper.SetConfigFile(configFile)

	err = viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("failed to reload config file: %w", err)
	}

	return nil
}

// resolveProjectName returns --project (or DATO_PROJECT), else the current project.
func resolveProjectName(config *Config) string {
	name := viper.GetString("project")
	if name != "" {
		return name
	}

	return config.CurrentProject
}

func selectedProject(config *Config) (*ProjectConfig, string, error) {
	name := resolveProjectName(config)
	if name == "" {
		return nil, "", constants.ErrNoProjectsConfigured
	}

	project, ok := config.Projects[name]
	if !ok {
		return nil, "", fmt.Errorf("project '%s': %w", name, constants.ErrProjectNotFound)
	}

	return project, name, nil
}

func maskConfig(config *Config) *Config {
	masked := *config
	masked.Projects = make(map[string]*ProjectConfig, len(config.Projects))

	for name, project := range config.Projects {
		copied := *project
		copied.Token = maskToken(project.Token)
		masked.Projects[name] = &copied
	}

	masked.DashboardToken = maskToken(config.DashboardToken)

	return &masked
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}

	return constants.MaskedSecret
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Setting", "Value")

	_ = table.Append("Config File", viper.ConfigFileUsed())
	_ = table.Append("Current Project", valueOrNA(config.CurrentProject))
	_ = table.Append("Output", valueOrNA(config.Output))
	_ = table.Append("Dashboard Token", valueOrNA(config.DashboardToken))

	_ = table.Render()

	if len(config.Projects) == 0 {
		return nil
	}

	_, _ = os.Stdout.WriteString("\nProjects:\n")

	return renderProjectsTable(config)
}

func renderProjectsTable(config *Config) error {
	names := make([]string, 0, len(config.Projects))
	for name := range config.Projects {
		names = append(names, name)
	}

	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Current", "Name", "Environment", "Base URL", "Token")

	for _, name := range names {
		project := config.Projects[name]

		current := ""
		if name == config.CurrentProject {
			current = constants.CheckMarkSymbol
		}

		_ = table.Append(current, name,
			valueOr(project.Environment, "primary"),
			valueOr(project.BaseURL, constants.DefaultBaseURL),
			maskToken(project.Token))
	}

	_ = table.Render()

	return nil
}

// newLogger builds the CLI logger: warnings only unless --verbose.
func newLogger() *zap.Logger {
	log, err := dato.NewDevelopmentLogger(viper.GetBool("verbose"))
	if err != nil {
		return zap.NewNop()
	}

	return log
}

func newClientConfig() *dato.Config {
	verbose := viper.GetBool("verbose")

	return &dato.Config{
		Environment: viper.GetString(keyEnvironment),
		Logger:      dato.NewZapLogger(newLogger()),
		Debug:       verbose,
	}
}

// CreateClient builds a Content Management API client. The token is taken
// from --token (or DATO_TOKEN), then from the selected project, then from
// DATOCMS_API_TOKEN.
func CreateClient() (dato.Client, error) {
	ctx := context.Background()
	config := loadConfig()
	clientConfig := newClientConfig()

	token := viper.GetString(keyToken)
	if token != "" {
		clientConfig.APIToken = token

		return newStaticClient(ctx, clientConfig, config)
	}

	name := resolveProjectName(config)
	if name != "" {
		project, ok := config.Projects[name]
		if !ok {
			return nil, fmt.Errorf("project '%s': %w", name, constants.ErrProjectNotFound)
		}

		if clientConfig.Environment == "" {
			clientConfig.Environment = project.Environment
		}

		if project.Token != "" {
			return newProjectClient(name, project, clientConfig)
		}
	}

	token = os.Getenv(constants.EnvAPIToken)
	if token == "" {
		return nil, constants.ErrNoTokenConfigured
	}

	clientConfig.APIToken = token

	return newStaticClient(ctx, clientConfig, config)
}

func newStaticClient(ctx context.Context, clientConfig *dato.Config, config *Config) (dato.Client, error) {
	if project, _, err := selectedProject(config); err == nil {
		if clientConfig.Environment == "" {
			clientConfig.Environment = project.Environment
		}

		clientConfig.BaseURL = project.BaseURL
	}

	apiClient, err := datocms.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

// newProjectClient creates a client whose token is re-read from the config
// file when the API rejects it.
func newProjectClient(name string, project *ProjectConfig, clientConfig *dato.Config) (dato.Client, error) {
	clientConfig.APIToken = project.Token
	clientConfig.BaseURL = datocms.NormalizeEndpoint(project.BaseURL, constants.DefaultBaseURL)

	tokenManager := auth.NewConfigTokenManager(name, project.Token, projectTokenSource, NewConfigPersister())

	apiClient, err := client.NewWithTokenManager(clientConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

// projectTokenSource reads a project token from the config file on disk.
func projectTokenSource(name string) (string, error) {
	_ = viper.ReadInConfig()

	project, ok := loadConfig().Projects[name]
	if !ok {
		return "", fmt.Errorf("project '%s': %w", name, constants.ErrProjectNotFound)
	}

	return project.Token, nil
}

// CreateDashboardClient builds a Dashboard API client. The token is taken
// from --token (or DATO_TOKEN), then dashboard_token (or DATO_DASHBOARD_TOKEN),
// then DATOCMS_API_TOKEN.
func CreateDashboardClient() (dato.DashboardClient, error) {
	clientConfig := newClientConfig()

	clientConfig.APIToken = dashboardToken(loadConfig())
	if clientConfig.APIToken == "" {
		return nil, constants.ErrNoTokenConfigured
	}

	dashboard, err := datocms.NewDashboard(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard client: %w", err)
	}

	return dashboard, nil
}

func dashboardToken(config *Config) string {
	if token := viper.GetString(keyToken); token != "" {
		return token
	}

	if config.DashboardToken != "" {
		return config.DashboardToken
	}

	return os.Getenv(constants.EnvAPIToken)
}
