// Package cli implements recipesctl, the operator tool for the recipes API.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/isdelr/recipes-be/internal/config"
	"github.com/isdelr/recipes-be/internal/database"
	"github.com/isdelr/recipes-be/internal/logger"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/urfave/cli/v3"
)

const name = "recipesctl"

// NewCommand builds the root recipesctl command. Output of the subcommands is
// written to out.
func NewCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: "Operator tasks for the recipes API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the SQLite database (defaults to DATABASE_PATH or the config file)",
				Sources: cli.EnvVars("DATABASE_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.InitWithWriter(cmd.ErrWriter, cmd.String("log-level"), "console")
			return ctx, nil
		},
		Writer: out,
		Commands: []*cli.Command{
			migrateCmd(),
			userCmd(),
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			db, err := openDB(ctx, cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintln(cmd.Root().Writer, "migrations applied")
			return nil
		},
	}
}

func userCmd() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage login accounts",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a user who can log in and modify recipes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("RECIPES_PASSWORD")},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					db, err := openDB(ctx, cmd)
					if err != nil {
						return err
					}
					defer db.Close()

					user, err := services.NewUserService(db).CreateUser(ctx, cmd.String("username"), cmd.String("password"))
					if err != nil {
						if errors.Is(err, services.ErrUsernameTaken) {
							return fmt.Errorf("user %q already exists", cmd.String("username"))
						}
						return fmt.Errorf("failed to create user: %w", err)
					}

					fmt.Fprintf(cmd.Root().Writer, "created user %s (%s)\n", user.Username, user.ID)
					return nil
				},
			},
		},
	}
}

// openDB opens the database named by --db, falling back to the service
// configuration, and brings its schema up to date.
func openDB(ctx context.Context, cmd *cli.Command) (*sql.DB, error) {
	path := cmd.String("db")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.DatabasePath
	}

	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
