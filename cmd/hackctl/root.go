package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/config"
	"hackhub-web/internal/env"
	"hackhub-web/internal/session"
)

var (
	apiURL     string
	sessionDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hackctl",
	Short: "Command line client for the HackHub platform",
	Long: `hackctl talks to the HackHub API with the same session rules as the
web frontend. The current user is kept in a file under ~/.hackhub
(or $HACKHUB_SESSION_DIR) and revalidated on every run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default: resolved from API_URL and friends)")
	rootCmd.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "directory holding the persisted session")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// app agrupa lo que comparten los subcomandos.
type app struct {
	logger *zap.Logger
	api    *apiclient.Client
	store  *session.Store
}

// identityRef permite crear el cliente antes que el store que lo usa.
type identityRef struct {
	store *session.Store
}

func (r *identityRef) CurrentUserID() (int64, bool) {
	if r.store == nil {
		return 0, false
	}
	return r.store.CurrentUserID()
}

// newApp arma cliente y sesión, y rehidrata la sesión persistida.
func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		logger, _ = zap.NewDevelopment()
	}

	resolved := env.NewResolver(nil, os.LookupEnv).Config()
	if apiURL != "" {
		resolved = env.EnvConfig{APIURL: apiURL}
	}

	dir := sessionDir
	if dir == "" {
		dir = cfg.SessionDir
	}
	if dir == "" {
		if dir, err = session.DefaultDir(); err != nil {
			return nil, fmt.Errorf("session dir: %w", err)
		}
	}

	ref := &identityRef{}
	api := apiclient.New(resolved, apiclient.WithLogger(logger), apiclient.WithIdentity(ref))
	store := session.NewStore(api, session.NewFileStorage(dir), logger)
	ref.store = store

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store.Init(initCtx)

	logger.Debug("session ready",
		zap.String("api_url", api.BaseURL()),
		zap.String("session_dir", dir),
		zap.Stringer("state", store.Snapshot().State),
	)
	return &app{logger: logger, api: api, store: store}, nil
}

func (a *app) requireSession() (int64, error) {
	id, ok := a.store.CurrentUserID()
	if !ok {
		return 0, fmt.Errorf("not logged in, run `hackctl login` first")
	}
	return id, nil
}
