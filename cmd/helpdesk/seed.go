package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/app"
	"github.com/spec-kit/helpdesk/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample accounts, tickets and comments",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context(), app.Options{Migrate: true})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.Logger.Sync() //nolint:errcheck

	res, err := seed.New(a.Auth, a.Tickets, a.Repos.Users, a.Logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	a.Logger.Info("seed: ok",
		zap.Int("users_created", res.UsersCreated),
		zap.Int("users_existing", res.UsersExisting),
		zap.Int("tickets_created", res.TicketsCreated),
		zap.Int("comments_created", res.CommentsCreated))
	return nil
}
