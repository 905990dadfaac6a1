// Package main is the entry point for the VitalTrack offline proxy.
//
// @title           VitalTrack Offline Proxy API
// @version         1.0.0
// @description     Offline cache proxy for the VitalTrack web application.
//
//	Every request outside /sw is proxied to the upstream application and served
//	from the offline cache when the network is unavailable.
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/vitaltrack-proxy
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Lifecycle
// @tag.description Install, activate and control messages
//
// @tag.name        Notifications
// @tag.description Push messages and notification clicks
//
// @tag.name        Sync
// @tag.description Background and periodic sync events
//
// @tag.name        Clients
// @tag.description Window clients controlled by the proxy
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/vitaltrack-proxy/docs" // swagger docs

	"github.com/guttosm/vitaltrack-proxy/config"
	"github.com/guttosm/vitaltrack-proxy/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	a, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	a.Start(context.Background())

	server := app.NewServer(a.Router, cfg.Server.Port,
		app.WithWriteTimeout(cfg.Proxy.FetchTimeout+15*time.Second),
		app.WithShutdownHook(a.Close),
	)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
