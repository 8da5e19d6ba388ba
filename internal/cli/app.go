package cli

import (
	"fmt"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/api"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/campus"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/config"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/session"
	storesqlite "github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/store/sqlite"
)

// app wires the library stack for one command invocation.
type app struct {
	cfg     config.Config
	secrets *storesqlite.Store
	backend *api.Client
	manager *session.Manager
	client  *campus.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	secrets, err := storesqlite.Open(cfg.StorePath, cfg.StoreSecret)
	if err != nil {
		return nil, fmt.Errorf("open secret store: %w", err)
	}

	userAgent := "neuland.app-native-sub000/" + cfg.AppVersion
	backend := api.NewClientWithLogger(cfg.APIURL, cfg.APIKey, userAgent, cfg.HTTPTimeout, logger)
	manager := session.NewManagerWithLogger(secrets, backend, nil, nil, nil, cfg.SessionTTL, cfg.AppVersion, logger)
	client := campus.NewClientWithLogger(manager, backend, logger)

	return &app{
		cfg:     cfg,
		secrets: secrets,
		backend: backend,
		manager: manager,
		client:  client,
	}, nil
}

func (a *app) Close() {
	if a != nil && a.secrets != nil {
		_ = a.secrets.Close()
	}
}
