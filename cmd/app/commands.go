package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/hireflow/cmd/app/commands"
	"github.com/allisson/hireflow/internal/app"
	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	"github.com/allisson/hireflow/internal/config"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server, the metrics server and the embedded outbox worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "worker",
			Usage: "Deliver pending notification emails from the outbox",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "once",
					Value: false,
					Usage: "Process a single batch and exit",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				outboxUseCase, err := container.OutboxUseCase()
				if err != nil {
					return err
				}

				return commands.RunWorker(ctx, outboxUseCase, container.Logger(), cmd.Bool("once"))
			},
		},
		{
			Name:  "create-user",
			Usage: "Create an identity of any role, including admin and superadmin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Full name",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Sources:  cli.EnvVars("HIREFLOW_USER_PASSWORD"),
					Usage:    "Initial password",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   string(authDomain.RoleAdmin),
					Usage:   "recruiter, company, admin or superadmin",
				},
				&cli.StringFlag{
					Name:  "company-name",
					Usage: "Company name, required for recruiters",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authUseCase, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					authUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					&authDomain.SignupInput{
						Name:        cmd.String("name"),
						Email:       cmd.String("email"),
						Password:    cmd.String("password"),
						Role:        cmd.String("role"),
						CompanyName: cmd.String("company-name"),
					},
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-signing-key",
			Usage: "Generate a token signing key, optionally wrapped by a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "gocloud.dev secrets URI (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunCreateSigningKey(
					ctx,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
