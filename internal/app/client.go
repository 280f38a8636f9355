package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/diagnostics"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/heroes"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/messages"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/publishers"
)

// Client is the heroes client runtime: the gateway, its message log and the
// diagnostic publishers behind it.
type Client struct {
	Heroes   *heroes.Service
	Messages *messages.Service

	cfg    *config.Config
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewClient builds a client runtime from config.
func NewClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	storeOpts := storage.Options{
		MessageTTL:      cfg.MessageTTL,
		CleanupInterval: cfg.MessageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.MessageStoreType, cfg.MessageStorePath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init message store: %w", err)
	}
	log.DebugObj("message store initialized", "storage_config", map[string]any{
		"type":                     cfg.MessageStoreType,
		"path":                     cfg.MessageStorePath,
		"message_ttl_seconds":      int(cfg.MessageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.MessageCleanupInterval.Seconds()),
	})

	msgs, err := messages.NewService(store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	transport := httpclient.NewRestyClientWithBaseURL(cfg.APIBaseURL, cfg.HTTPTimeout)
	svc, err := heroes.NewService(transport, msgs,
		heroes.WithPath(cfg.HeroesPath),
		heroes.WithReporter(diagnostics.NewReporter(cfg.AppName, fanout, log)),
		heroes.WithEncodedSearch(cfg.EncodeSearchTerm),
	)
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, err
	}

	return &Client{
		Heroes:   svc,
		Messages: msgs,
		cfg:      cfg,
		store:    store,
		fanout:   fanout,
		log:      log,
	}, nil
}

// buildFanout loads the enabled publishers. No publishers file means no fan-out.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.DebugObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Close releases the publishers and the message store.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if err := c.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publishers: %w", err))
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close message store: %w", err))
		}
	}
	return errors.Join(errs...)
}
