package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/cache"
	"github.com/darhlilove/streambase/client"
)

var version = "dev"

// app wires the session core to the REST client the way an embedding UI
// would: restore the persisted session before anything else runs, feed the
// active token to every API call.
type app struct {
	cfg    streambase.Config
	logger streambase.ZerologLogger
	api    *client.Client
	auther *streambase.Auther
	cache  *cache.Cache
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := streambase.LoadConfig()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := streambase.NewZerologLogger(
		zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger(),
	)

	tokens, err := cfg.OpenTokenStore(logger)
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.APIBaseURL).
		WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}).
		WithLogger(logger)

	auther := streambase.NewAuther(api, streambase.NewSessionStore(), tokens).
		WithLogger(logger)
	api.WithTokenSource(auther.Token)

	auther.Restore(cmd.Context())

	a := &app{cfg: cfg, logger: logger, api: api, auther: auther}

	// The offline mirror is optional; a broken cache file never blocks the
	// CLI.
	if cfg.CachePath != "" {
		mirror, err := cache.Open(cmd.Context(), cfg.CachePath)
		if err != nil {
			logger.Error("open cache at %s: %v", cfg.CachePath, err)
		} else {
			a.cache = mirror
		}
	}

	return a, nil
}

func main() {
	root := &cobra.Command{
		Use:           "streambase",
		Short:         "Streambase - browse the catalog and manage your lists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("streambase version %s\n", version)
		},
	})

	root.AddCommand(newLoginCmd())
	root.AddCommand(newAdminLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newRequestCmd())
	root.AddCommand(newNotificationsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
