// Package main provides ebhutanzactl, an operator tool for inspecting and
// repairing applicant drafts directly against the configured storage.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	applicationservice "github.com/nova19-exe/eBhutanza/internal/application/service"
	applicationstore "github.com/nova19-exe/eBhutanza/internal/application/store"
	"github.com/nova19-exe/eBhutanza/internal/kv/backend"
	"github.com/nova19-exe/eBhutanza/internal/platform/config"
	"github.com/nova19-exe/eBhutanza/internal/platform/logger"
	"github.com/nova19-exe/eBhutanza/internal/platform/redis"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

func main() {
	if err := rootCmd(config.Load, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(load func() (config.Config, error), out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebhutanzactl",
		Short:         "Operator tooling for the eBhutanza portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(draftCmd(load, out))
	return cmd
}

func draftCmd(load func() (config.Config, error), out io.Writer) *cobra.Command {
	var userFlag string
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or repair an applicant's draft",
	}
	cmd.PersistentFlags().StringVar(&userFlag, "user", "", "applicant user ID (uuid)")
	_ = cmd.MarkPersistentFlagRequired("user")

	withTracker := func(fn func(ctx context.Context, t *applicationservice.Tracker, userID id.UserID) (any, error)) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error {
			userID, err := id.ParseUserID(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			log := logger.New(cfg.Environment, cfg.LogLevel)

			rdb, err := redis.New(ctx, cfg.Redis)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			if rdb != nil {
				defer rdb.Close()
			}
			opened, err := backend.Open(ctx, cfg.Storage, redisClient(rdb))
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer opened.Close()

			tracker := applicationservice.New(applicationstore.New(opened.Store), applicationservice.WithLogger(log))
			res, err := fn(ctx, tracker, userID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored draft",
			Args:  cobra.NoArgs,
			RunE: withTracker(func(ctx context.Context, t *applicationservice.Tracker, userID id.UserID) (any, error) {
				return t.LoadDraft(ctx, userID)
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Replace the draft with an empty one",
			Args:  cobra.NoArgs,
			RunE: withTracker(func(ctx context.Context, t *applicationservice.Tracker, userID id.UserID) (any, error) {
				return t.NewDraft(ctx, userID)
			}),
		},
		&cobra.Command{
			Use:   "migrate-legacy",
			Short: "Claim a legacy unscoped draft for the user",
			Args:  cobra.NoArgs,
			RunE: withTracker(func(ctx context.Context, t *applicationservice.Tracker, userID id.UserID) (any, error) {
				migrated, err := t.MigrateLegacy(ctx, userID)
				if err != nil {
					return nil, err
				}
				return map[string]bool{"migrated": migrated}, nil
			}),
		},
	)
	return cmd
}

func redisClient(c *redis.Client) *goredis.Client {
	if c == nil {
		return nil
	}
	return c.Client
}
