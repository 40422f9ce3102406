package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chat-api/confs"
	"chat-api/db"
	"chat-api/entities"
	"chat-api/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegistrySync keeps the local validator pool in step with the external
// directory service. It runs alongside the HTTP server in the same process.
type RegistrySync struct {
	database db.Database
	cfg      *confs.Config
	client   *http.Client
	logger   *zap.Logger
}

func NewRegistrySync(database db.Database, cfg *confs.Config, logger *zap.Logger) *RegistrySync {
	return &RegistrySync{
		database: database,
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Run loops until ctx is cancelled. Failed iterations are logged and
// swallowed; the registry keeps its previous state and the next tick retries
// from scratch, without backoff.
func (s *RegistrySync) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		if err := s.SyncOnce(ctx); err != nil {
			s.logger.Error("failed to fetch validators", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type registryEndpoint struct {
	UID    int    `json:"uid"`
	Name   string `json:"name"`
	Hotkey string `json:"hotkey"`
	IP     string `json:"ip"`
	Port   int    `json:"port"`
}

// SyncOnce fetches the directory listing and reconciles it with local
// storage in a single transaction: validators absent from the listing are
// deactivated, the rest are upserted by uid.
func (s *RegistrySync) SyncOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.HotkeysAPIURL+"/validators/endpoints", nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-api-key", s.cfg.HotkeysAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var endpoints []registryEndpoint
	if err := json.NewDecoder(resp.Body).Decode(&endpoints); err != nil {
		return err
	}

	uids := make([]int, 0, len(endpoints))
	for _, e := range endpoints {
		uids = append(uids, e.UID)
	}

	err = s.database.GetDB().Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewValidatorPgRepository(db.Tx(tx))
		if err := repo.DeactivateMissing(uids); err != nil {
			return err
		}
		for _, e := range endpoints {
			v := entities.Validator{
				UID:    e.UID,
				Name:   e.Name,
				Hotkey: e.Hotkey,
				IP:     e.IP,
				Port:   e.Port,
			}
			if err := repo.Upsert(&v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("updated validators", zap.Int("count", len(endpoints)))
	return nil
}
