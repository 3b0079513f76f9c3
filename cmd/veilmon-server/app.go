package main

import (
	"os"
	"time"

	"github.com/veilmon/veilmon-server/internal/battle"
	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/commitment"
	"github.com/veilmon/veilmon-server/internal/config"
	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/logging"
	"github.com/veilmon/veilmon-server/internal/service"
	"github.com/veilmon/veilmon-server/internal/storage"
	"github.com/veilmon/veilmon-server/internal/zk"
)

func loadConfigOrDefault(path string) *config.LoadedConfig {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.Info("No config file found; using defaults", logging.Fields{"config_path": path})
		return config.Default()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Invalid veilmon configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func buildCatalogOrExit(cfg *config.LoadedConfig) *catalog.Catalog {
	if len(cfg.CatalogOverrides) == 0 {
		return catalog.NewCatalog()
	}
	cat, err := catalog.NewCatalogWithOverrides(cfg.CatalogOverrides)
	if err != nil {
		logging.Fatal("Invalid catalog overrides in configuration", err, nil)
	}
	return cat
}

func createRepositoryOrExit(dbPath string, cat *catalog.Catalog) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db, cat)
}

func buildScheme(cfg *config.LoadedConfig) commitment.Scheme {
	if cfg.CommitmentScheme == constants.SchemePlaintext {
		return commitment.NewPlaintextScheme()
	}
	return commitment.NewMiMCScheme()
}

// buildProofService pairs the proof layer with the commitment scheme:
// the plaintext stub commitment gets the always-valid stub prover, the
// MiMC commitment gets the real groth16 proof of opening.
func buildProofService(cfg *config.LoadedConfig) zk.ProofService {
	if cfg.CommitmentScheme == constants.SchemePlaintext {
		return zk.NewStubProofService()
	}
	return zk.NewGroth16Service()
}

func newSessions(repo storage.Repository, cat *catalog.Catalog, scheme commitment.Scheme, proofs zk.ProofService, cfg *config.LoadedConfig) *service.Sessions {
	opts := battle.Options{
		RequireValidProof:   cfg.RequireValidProof,
		CollaboratorTimeout: cfg.CollaboratorTimeout,
		StaleTTL:            cfg.StaleBattleTTL,
	}
	return service.NewSessions(repo, cat, scheme, proofs, opts, time.Now().UnixNano())
}

// startStaleScanner runs the expiry sweep on a fixed interval.
func startStaleScanner(sessions *service.Sessions, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := sessions.ExpireStale(time.Now()); err != nil {
				logging.Error("stale battle scanner failed", err, nil)
			}
		}
	}()
}
