package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/app"
	"github.com/Hadern04/orgbot/internal/credential"
	"github.com/Hadern04/orgbot/internal/model"
)

// loadToken resolves the API token from the environment first, then
// the system keyring. An empty token is allowed: the backend decides
// whether anonymous access is acceptable.
func loadToken() string {
	if token := os.Getenv("ORGBOT_API_TOKEN"); token != "" {
		return token
	}
	token, err := credential.Get("api-token")
	if err != nil {
		return ""
	}
	return token
}

func main() {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Server.OwnerID == "" {
		fmt.Fprintln(os.Stderr, "config is missing server.owner_id; set it in", model.DefaultConfigPath())
		os.Exit(1)
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		loadToken(),
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
	)

	p := tea.NewProgram(app.New(cfg, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
