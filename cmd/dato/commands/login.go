package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/fivetwenty-io/dato-client/pkg/datocms"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		environment string
		baseURL     string
		skipVerify  bool
	)

	cmd := &cobra.Command{
		Use:   "login [PROJECT]",
		Short: "Store an API token for a project",
		Long: `Prompt for an API token, check it against the API and store it in the
configuration. PROJECT defaults to --project, then the current project, then "default".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			name := resolveProjectName(config)
			if len(args) > 0 {
				name = args[0]
			}

			if name == "" {
				name = "default"
			}

			token, err := readToken(os.Stdin)
			if err != nil {
				return err
			}

			project, exists := config.Projects[name]
			if !exists {
				project = &ProjectConfig{}
				config.Projects[name] = project
			}

			if environment != "" {
				project.Environment = environment
			}

			if baseURL != "" {
				project.BaseURL = baseURL
			}

			if !skipVerify {
				site, err := verifyToken(cmd.Context(), token, project)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(os.Stdout, "Authenticated for site %s\n", site.Name)
			}

			project.Token = token

			if config.CurrentProject == "" {
				config.CurrentProject = name
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Token saved for project %s\n", name)

			return nil
		},
	}

	cmd.Flags().StringVar(&environment, "env", "", "default sandbox environment for the project")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API endpoint")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the token without calling the API")

	return cmd
}

// readToken prompts on a terminal without echo, or reads one line from a pipe.
func readToken(input *os.File) (string, error) {
	fd := int(input.Fd()) // #nosec G115

	var token string

	if term.IsTerminal(fd) {
		_, _ = os.Stderr.WriteString("API token: ")

		tokenBytes, err := term.ReadPassword(fd)

		_, _ = os.Stderr.WriteString("\n")

		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}

		token = string(tokenBytes)
	} else {
		line, err := bufio.NewReader(input).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read token: %w", err)
		}

		token = line
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", constants.ErrEmptyToken
	}

	return token, nil
}

func verifyToken(ctx context.Context, token string, project *ProjectConfig) (*dato.Site, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	apiClient, err := datocms.New(ctx, &dato.Config{
		APIToken:    token,
		Environment: project.Environment,
		BaseURL:     project.BaseURL,
		Logger:      dato.NewZapLogger(newLogger()),
		Debug:       viper.GetBool("verbose"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	site, err := apiClient.Site().Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	return site, nil
}
