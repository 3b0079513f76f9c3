package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/veilmon/veilmon-server/internal/battle"
	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/service"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	sessions *service.Sessions
	cat      *catalog.Catalog
	hub      *Hub
}

// NewBattleHandler creates a handler over the session manager. The hub
// receives a snapshot after every mutating operation.
func NewBattleHandler(sessions *service.Sessions, cat *catalog.Catalog, hub *Hub) *BattleHandler {
	h := &BattleHandler{sessions: sessions, cat: cat, hub: hub}
	sessions.SetNotifier(hub.Broadcast)
	return h
}

var sessionCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

func normalizeSessionCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type createBattleRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// CreateBattle provisions a new battle session in the init phase.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req createBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	snap, err := h.sessions.CreateBattle(req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetBattle returns the current battle snapshot.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	snap, err := h.sessions.GetBattle(code)
	if err != nil {
		h.writeError(c, err, constants.ErrBattleNotFound)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// StartBattle transitions init -> battle.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	snap, err := h.sessions.StartBattle(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err, constants.ErrStartFailed)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type commitMoveRequest struct {
	MoveID string `json:"move_id"`
}

// CommitMove commits the player's move for the current turn.
func (h *BattleHandler) CommitMove(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	var req commitMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MoveID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	snap, err := h.sessions.CommitMove(c.Request.Context(), code, req.MoveID)
	if err != nil {
		h.writeError(c, err, constants.ErrCommitFailed)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ResolveTurn resolves the pending turn.
func (h *BattleHandler) ResolveTurn(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	snap, err := h.sessions.ResolveTurn(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, battle.ErrInvalidProof) {
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrProofRejected})
			return
		}
		h.writeError(c, err, constants.ErrResolveFailed)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type switchMonsterRequest struct {
	Index int `json:"index"`
}

// SwitchMonster changes the active player monster.
func (h *BattleHandler) SwitchMonster(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	var req switchMonsterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	snap, err := h.sessions.SwitchMonster(code, req.Index)
	if err != nil {
		h.writeError(c, err, constants.ErrFailedUpdateBattle)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ResetBattle restores the session to the init phase.
func (h *BattleHandler) ResetBattle(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	snap, err := h.sessions.ResetBattle(code)
	if err != nil {
		h.writeError(c, err, constants.ErrFailedUpdateBattle)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ListCatalog returns the monster roster templates.
func (h *BattleHandler) ListCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"players": h.cat.PlayerPresets(),
		"enemies": h.cat.EnemyPresets(),
	})
}

func (h *BattleHandler) sessionCode(c *gin.Context) (string, bool) {
	code := normalizeSessionCode(c.Param("sessionCode"))
	if !sessionCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return "", false
	}
	return code, true
}

func (h *BattleHandler) writeError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrBattleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fallback})
}
