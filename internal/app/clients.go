package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/googleauth"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/platform/openai"
	"github.com/yungbote/force-backend/internal/platform/sessionstore"
)

type Clients struct {
	OpenAI   *openai.Client
	Google   *googleauth.Client
	Sessions sessionstore.Store
}

func wireClients(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		log.Warn("OPENAI_API_KEY is not set; generation endpoints will fail with upstream_auth")
	}
	openaiClient := openai.NewClient(openai.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.Model,
		Timeout:    time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.OpenAI.MaxRetries,
		RPS:        cfg.OpenAI.RPS,
	}, log, metrics)

	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		log.Warn("Google OAuth is not configured; sign-in will fail")
	}
	google := googleauth.New(googleauth.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
	}, log)

	var sessions sessionstore.Store
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		s, err := sessionstore.NewRedisStore(addr, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis session store: %w", err)
		}
		sessions = s
	} else {
		log.Warn("REDIS_ADDR is not set; session revocation is kept in memory")
		sessions = sessionstore.NewMemoryStore()
	}

	return Clients{OpenAI: openaiClient, Google: google, Sessions: sessions}, nil
}

func (c Clients) Close() {
	if c.Sessions != nil {
		_ = c.Sessions.Close()
	}
}
