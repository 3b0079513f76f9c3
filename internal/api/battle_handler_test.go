package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veilmon/veilmon-server/internal/battle"
	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/commitment"
	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/game"
	"github.com/veilmon/veilmon-server/internal/service"
	"github.com/veilmon/veilmon-server/internal/storage"
	"github.com/veilmon/veilmon-server/internal/zk"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.NewCatalog()
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	repo := storage.NewSQLiteRepository(db, cat)
	sessions := service.NewSessions(repo, cat, commitment.NewPlaintextScheme(), zk.NewStubProofService(),
		battle.Options{Rand: rand.New(rand.NewSource(1))}, 1)
	handler := NewBattleHandler(sessions, cat, NewHub())

	router := gin.New()
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
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBattle(t *testing.T, w *httptest.ResponseRecorder) game.Battle {
	t.Helper()
	var b game.Battle
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode battle: %v (body %s)", err, w.Body.String())
	}
	return b
}

func TestBattleLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/battles", gin.H{"wallet_address": "0xabc"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	created := decodeBattle(t, w)
	if created.SessionCode == "" || created.Phase != game.PhaseInit {
		t.Fatalf("unexpected create response: %+v", created)
	}
	base := "/api/battles/" + created.SessionCode

	w = doJSON(t, router, http.MethodGet, base, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, base+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	if b := decodeBattle(t, w); b.Phase != game.PhaseBattle || b.Turn != 1 {
		t.Fatalf("start response: %s/%d", b.Phase, b.Turn)
	}

	w = doJSON(t, router, http.MethodPost, base+"/commit", gin.H{"move_id": "m1"})
	if w.Code != http.StatusOK {
		t.Fatalf("commit: %d %s", w.Code, w.Body.String())
	}
	if b := decodeBattle(t, w); b.PlayerCommitment == nil || b.PlayerCommitment.Token == "" {
		t.Fatalf("commit response missing token")
	}

	w = doJSON(t, router, http.MethodPost, base+"/resolve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: %d %s", w.Code, w.Body.String())
	}
	if b := decodeBattle(t, w); b.Turn != 2 {
		t.Fatalf("resolve response turn %d", b.Turn)
	}

	w = doJSON(t, router, http.MethodPost, base+"/switch", gin.H{"index": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("switch: %d %s", w.Code, w.Body.String())
	}
	if b := decodeBattle(t, w); b.ActivePlayerIndex != 1 {
		t.Fatalf("switch response index %d", b.ActivePlayerIndex)
	}

	w = doJSON(t, router, http.MethodPost, base+"/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}
	if b := decodeBattle(t, w); b.Phase != game.PhaseInit || b.Turn != 0 {
		t.Fatalf("reset response: %s/%d", b.Phase, b.Turn)
	}
}

func TestSessionCodeValidation(t *testing.T) {
	router := newTestRouter(t)

	// Malformed codes are rejected before touching the service.
	w := doJSON(t, router, http.MethodGet, "/api/battles/short", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed code: %d", w.Code)
	}

	// Well-formed but unknown codes are a 404.
	w = doJSON(t, router, http.MethodGet, "/api/battles/ZZZZ9999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown code: %d", w.Code)
	}

	// Codes are case-insensitive on input.
	created := decodeBattle(t, doJSON(t, router, http.MethodPost, "/api/battles", gin.H{}))
	w = doJSON(t, router, http.MethodGet, "/api/battles/"+strings.ToLower(created.SessionCode), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lowercase code rejected: %d", w.Code)
	}
}

func TestCommitMove_BadRequest(t *testing.T) {
	router := newTestRouter(t)
	created := decodeBattle(t, doJSON(t, router, http.MethodPost, "/api/battles", gin.H{}))

	w := doJSON(t, router, http.MethodPost, "/api/battles/"+created.SessionCode+"/commit", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty move_id accepted: %d", w.Code)
	}
}

func TestListCatalog(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("catalog: %d", w.Code)
	}
	var body struct {
		Players []catalog.Preset `json:"players"`
		Enemies []catalog.Preset `json:"enemies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(body.Players) != 3 || len(body.Enemies) != 6 {
		t.Fatalf("catalog sizes %d/%d", len(body.Players), len(body.Enemies))
	}
}

func TestGetVersion(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/version", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("version: %d", w.Code)
	}
}
