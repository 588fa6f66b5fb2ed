// Command careledgerctl runs migrations, the background worker and one-off
// operator tasks.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/careledger/internal/app"
	"github.com/MrJamesThe3rd/careledger/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "careledgerctl",
	Short:         "Operate the care ledger: migrations, worker and maintenance jobs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read .env", "error", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		slog.SetDefault(cfg.NewLogger())
		cmd.SetContext(withConfig(cmd.Context(), cfg))

		return nil
	},
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(cmd *cobra.Command) *config.Config {
	return cmd.Context().Value(configKey{}).(*config.Config)
}

// openApp connects using the loaded config. Callers must Close the result.
func openApp(cmd *cobra.Command) (*app.App, error) {
	return app.Open(cmd.Context(), configFrom(cmd))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
