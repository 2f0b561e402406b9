// Package cli is the terminal front-end of the ORCHA client: a REPL over
// the auth state machine, the admin machine and the assistant services.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/orcha-labs/orchactl/internal/client/api"
	"github.com/orcha-labs/orchactl/internal/client/config"
	"github.com/orcha-labs/orchactl/internal/client/services"
	"github.com/orcha-labs/orchactl/internal/client/store"
	"github.com/orcha-labs/orchactl/internal/logging"
)

type App struct {
	config *config.Config
	store  *store.Store
	auth   *services.Machine
	admin  *services.AdminMachine
	assist *services.Assistant
	log    logging.Logger
	reader *bufio.Reader

	// conversationID threads consecutive `ask` commands into one chat.
	conversationID string
}

// NewApp wires the client together: one state database, one API client per
// token family, machines hydrated from the store.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, err
	}

	userAPI := api.New(cfg.APIBaseURL)
	adminAPI := api.New(cfg.APIBaseURL)

	auth, err := services.NewMachine(ctx, userAPI, st, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	admin, err := services.NewAdminMachine(ctx, adminAPI, st, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &App{
		config: cfg,
		store:  st,
		auth:   auth,
		admin:  admin,
		assist: services.NewAssistant(userAPI, auth),
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error(context.Background(), "failed to close state database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.Snapshot().IsAuthenticated
}
