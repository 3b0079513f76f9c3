package constants

// Centralized constants for env keys, routes and error messages.
const (
	// Environment variable keys
	EnvConfigPath = "VEILMON_CONFIG"
	EnvDBPath     = "VEILMON_DB"
	EnvDebug      = "VEILMON_DEBUG"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Commitment scheme names accepted in the config file.
const (
	SchemePlaintext = "plaintext"
	SchemeMiMC      = "mimc"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteCatalog       = "/catalog"
	RouteVersion       = "/version"
	RouteBattles       = "/battles"
	RouteBattleByCode  = "/battles/:sessionCode"
	RouteBattleStart   = "/battles/:sessionCode/start"
	RouteBattleCommit  = "/battles/:sessionCode/commit"
	RouteBattleResolve = "/battles/:sessionCode/resolve"
	RouteBattleSwitch  = "/battles/:sessionCode/switch"
	RouteBattleReset   = "/battles/:sessionCode/reset"
	RouteBattleWS      = "/battles/:sessionCode/ws"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidSessionCode = "Invalid session code"
	ErrBattleNotFound     = "Battle not found"
	ErrFailedCreateBattle = "Failed to create battle"
	ErrFailedUpdateBattle = "Failed to update battle"
	ErrResolveFailed      = "Failed to resolve turn"
	ErrCommitFailed       = "Failed to commit move"
	ErrStartFailed        = "Failed to start battle"
	ErrProofRejected      = "Move proof rejected"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldSession  = "session_code"
	LogFieldTurn     = "turn"
	LogFieldScheme   = "scheme"
	LogFieldAddr     = "addr"
	LogFieldMoveID   = "move_id"
)
