package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veilmon/veilmon-server/internal/api"
	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/logging"
)

func main() {
	// Configuration file is optional. Path may be provided via
	// VEILMON_CONFIG or defaults to ./veilmon_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./veilmon_config.json"
	}
	cfg := loadConfigOrDefault(configPath)

	cat := buildCatalogOrExit(cfg)

	// Allow the DB path to be configured via VEILMON_DB. Default to a
	// data/ directory for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/veilmon.db"
	}
	repo := createRepositoryOrExit(dbPath, cat)

	scheme := buildScheme(cfg)
	proofs := buildProofService(cfg)
	sessions := newSessions(repo, cat, scheme, proofs, cfg)

	// Background scanner: periodically expire battles whose stale
	// deadline has passed so abandoned sessions do not linger forever.
	startStaleScanner(sessions, 30*time.Second)

	hub := api.NewHub()
	handler := api.NewBattleHandler(sessions, cat, hub)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteCatalog, handler.ListCatalog)
		apiRoutes.GET(constants.RouteVersion, handler.GetVersion)

		apiRoutes.POST(constants.RouteBattles, handler.CreateBattle)
		apiRoutes.GET(constants.RouteBattleByCode, handler.GetBattle)
		apiRoutes.POST(constants.RouteBattleStart, handler.StartBattle)
		apiRoutes.POST(constants.RouteBattleCommit, handler.CommitMove)
		apiRoutes.POST(constants.RouteBattleResolve, handler.ResolveTurn)
		apiRoutes.POST(constants.RouteBattleSwitch, handler.SwitchMonster)
		apiRoutes.POST(constants.RouteBattleReset, handler.ResetBattle)
		apiRoutes.GET(constants.RouteBattleWS, handler.ServeWS)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr, constants.LogFieldScheme: cfg.CommitmentScheme})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
