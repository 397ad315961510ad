package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/addonaccounts/internal/server/services"
	"github.com/spf13/cobra"

	sc "github.com/dmitrijs2005/addonaccounts/internal/server/config"
)

func (a *App) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, func(ctx context.Context, db *sql.DB) error {
				if err := a.migrate(ctx, db); err != nil {
					return fmt.Errorf("migration error: %w", err)
				}
				a.logger.Info(ctx, "migrations applied")
				return nil
			})
		},
	}
}

// userService builds the service the admin commands share with the server.
func (a *App) userService(db *sql.DB) *services.UserService {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = a.cfg.DatabaseDSN
	return services.NewUserService(db, repomanager.NewPostgresRepositoryManager(), cfg,
		services.WithLogger(a.logger))
}

func (a *App) createSuperuserCommand() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an account in the Admins group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readSecret(cmd, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			return a.withDB(cmd, func(ctx context.Context, db *sql.DB) error {
				user, err := a.userService(db).CreateSuperuser(ctx, username, email, string(password))
				if err != nil {
					return err
				}
				a.logger.Info(ctx, "superuser created", "user_id", user.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "created superuser %s (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (a *App) blockCommand() *cobra.Command {
	block := &cobra.Command{
		Use:   "block",
		Short: "Add entries to the registration blocklists",
	}

	add := func(use, short string, fn func(s *services.BlocklistService, ctx context.Context, value string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <value>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withDB(cmd, func(ctx context.Context, db *sql.DB) error {
					s := services.NewBlocklistService(db, repomanager.NewPostgresRepositoryManager())
					if err := fn(s, ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "blocked %s\n", use)
					return nil
				})
			},
		}
	}

	block.AddCommand(
		add("name", "Refuse usernames containing value", (*services.BlocklistService).BlockName),
		add("email-domain", "Refuse email addresses at this domain", (*services.BlocklistService).BlockEmailDomain),
		add("password", "Refuse this password", (*services.BlocklistService).BlockPassword),
	)
	return block
}
