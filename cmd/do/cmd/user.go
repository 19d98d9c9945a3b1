package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/config"
	"github.com/programpal/pathfinder/internal/db"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/service"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var passwordFromStdin bool

	create := &cobra.Command{
		Use:   "create <email>",
		Short: "Create an account (password from PATHFINDER_PASSWORD or --password-stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("PATHFINDER_PASSWORD")
			if passwordFromStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("no password given: set PATHFINDER_PASSWORD or use --password-stdin")
			}

			return withDB(cmd, func(cfg *config.Config, database *sqlx.DB) error {
				err := db.RunMigrations(cmd.Context(), database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}

				auth := service.NewAuthService(repository.NewUserRepository(database), cfg.JWTSecret, cfg.JWTExpiry)
				user, err := auth.Signup(cmd.Context(), args[0], password)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}

	create.Flags().BoolVar(&passwordFromStdin, "password-stdin", false, "Read the password from stdin")
	return create
}
