package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "collaborators"},
		Short:   "Inspect collaborators",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List collaborators",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			users, err := client.Users().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return outputResult(users.Data, renderUsersTable)
		},
	})

	return cmd
}

func renderUsersTable(users []dato.User) error {
	if len(users) == 0 {
		_, _ = os.Stdout.WriteString("No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Email", "Name", "Role", "Active", "2FA")

	for _, user := range users {
		_ = table.Append(user.ID, user.Email, user.FullName, refID(user.Role),
			formatBool(user.IsActive), formatBool(user.Is2FA))
	}

	_ = table.Render()

	return nil
}

// NewRolesCommand creates the roles command group.
func NewRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roles",
		Aliases: []string{"role"},
		Short:   "Inspect roles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			roles, err := client.Roles().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}

			return outputResult(roles.Data, renderRolesTable)
		},
	})

	return cmd
}

func renderRolesTable(roles []dato.Role) error {
	if len(roles) == 0 {
		_, _ = os.Stdout.WriteString("No roles found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Edit Schema", "Manage Users", "Manage Environments", "Environments")

	for _, role := range roles {
		_ = table.Append(role.ID, role.Name,
			formatBool(role.CanEditSchema),
			formatBool(role.CanManageUsers),
			formatBool(role.CanManageEnvironments),
			valueOrNA(role.EnvironmentsAccess))
	}

	_ = table.Render()

	return nil
}

// NewTokensCommand creates the tokens command group.
func NewTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tokens",
		Aliases: []string{"token", "access-tokens"},
		Short:   "Inspect API tokens",
	}

	cmd.AddCommand(newTokensListCommand())

	return cmd
}

func newTokensListCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			tokens, err := client.AccessTokens().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list API tokens: %w", err)
			}

			if !reveal {
				maskAccessTokens(tokens.Data)
			}

			return outputResult(tokens.Data, renderTokensTable)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "show token values")

	return cmd
}

func maskAccessTokens(tokens []dato.AccessToken) {
	masked := constants.MaskedSecret

	for i := range tokens {
		if tokens[i].Token != nil {
			tokens[i].Token = &masked
		}
	}
}

func renderTokensTable(tokens []dato.AccessToken) error {
	if len(tokens) == 0 {
		_, _ = os.Stdout.WriteString("No API tokens found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "CDA", "CDA Preview", "CMA", "Role", "Token")

	for _, token := range tokens {
		_ = table.Append(token.ID, token.Name,
			formatBool(token.CanAccessCDA),
			formatBool(token.CanAccessCDAPreview),
			formatBool(token.CanAccessCMA),
			refID(token.Role),
			stringPtrOrNA(token.Token))
	}

	_ = table.Render()

	return nil
}
