package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/internal/store/drivers/sqlite"
	"github.com/screfinery/screfinery/pkg/cryptox"
	"github.com/screfinery/screfinery/pkg/idx"
	"github.com/screfinery/screfinery/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testDefaultScopes = []string{"user.read", "friendship.*", "mining_session.*", "ore.read", "station.read", "method.read"}

type testAPI struct {
	router *Router
	store  store.Store
	signer *jwtx.HS256
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "screfinery-test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(signer, "test", testDefaultScopes, nil, st, logger)
	router.AuthService = &service.AuthService{
		Store:         st,
		Signer:        signer,
		Issuer:        "screfinery-test",
		AccessTTL:     time.Minute,
		DefaultScopes: testDefaultScopes,
	}
	router.UserService = &service.UserService{Store: st, DefaultScopes: testDefaultScopes}
	router.FriendshipService = &service.FriendshipService{Store: st}
	router.OreService = &service.OreService{Store: st}
	router.StationService = &service.StationService{Store: st}
	router.MethodService = &service.MethodService{Store: st}
	router.MiningSessionService = &service.MiningSessionService{Store: st}
	router.ApplyRoutes()

	return &testAPI{router: router, store: st, signer: signer}
}

func (a *testAPI) seedUser(t *testing.T, name, password string, scopes []string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Mail:         name + "@example.com",
		PasswordHash: hash,
		IsActive:     true,
		Scopes:       scopes,
	}
	require.NoError(t, a.store.Users().CreateUser(context.Background(), user))
	return user
}

func (a *testAPI) token(t *testing.T, user domain.User) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(user.ID, user.Scopes, time.Minute, "screfinery-test", user.Name, time.Now())
	token, err := a.signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.seedUser(t, "alice", "hunter2hunter2", []string{"user.read"})

	t.Run("valid credentials", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/v1/login", "", map[string]string{
			"name":     "alice",
			"password": "hunter2hunter2",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[loginResponse](t, rec)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, "alice", resp.User.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/v1/login", "", map[string]string{
			"name":     "alice",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		resp := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, "invalid_credentials", resp.Error)
	})

	t.Run("garbage body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/login", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthorizationGates(t *testing.T) {
	api := newTestAPI(t)

	reader := api.seedUser(t, "reader", "hunter2hunter2", []string{"ore.read"})
	admin := api.seedUser(t, "admin", "hunter2hunter2", []string{"ore.*"})

	t.Run("no token", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/ores", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verbatim scope grants its action only", func(t *testing.T) {
		token := api.token(t, reader)

		rec := api.do(t, http.MethodGet, "/v1/ores", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(t, http.MethodPost, "/v1/ores", token, map[string]string{"name": "Quantainium"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "insufficient_scope", decodeBody[ErrorResponse](t, rec).Error)
	})

	t.Run("resource wildcard grants every action", func(t *testing.T) {
		token := api.token(t, admin)

		rec := api.do(t, http.MethodPost, "/v1/ores", token, map[string]string{"name": "Quantainium"})
		require.Equal(t, http.StatusCreated, rec.Code)

		ore := decodeBody[oreView](t, rec)
		rec = api.do(t, http.MethodDelete, "/v1/ores/"+ore.ID, token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wildcard does not leak across resources", func(t *testing.T) {
		token := api.token(t, admin)

		rec := api.do(t, http.MethodGet, "/v1/stations", token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.seedUser(t, "admin", "hunter2hunter2", []string{"user.*"})
	token := api.token(t, admin)

	t.Run("create without scopes uses defaults", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/v1/users", token, map[string]any{
			"name":             "newbie",
			"mail":             "newbie@example.com",
			"password":         "hunter2hunter2",
			"password_confirm": "hunter2hunter2",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decodeBody[userView](t, rec)
		require.ElementsMatch(t, testDefaultScopes, created.Scopes)
		require.True(t, created.IsActive)
	})

	t.Run("validation error carries the field", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/v1/users", token, map[string]any{
			"name":             "mismatch",
			"mail":             "mismatch@example.com",
			"password":         "one",
			"password_confirm": "two",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, "invalid_request", resp.Error)
		require.Equal(t, "password_confirm", resp.Field)
	})

	t.Run("list filters and envelope", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/users?name=admin", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[ListResponse[userView]](t, rec)
		require.Equal(t, 1, resp.TotalCount)
		require.Equal(t, "admin", resp.Items[0].Name)
	})

	t.Run("update replaces scopes wholesale", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/v1/users/"+admin.ID, token, map[string]any{
			"scopes": []string{"user.*", "ore.read"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.ElementsMatch(t, []string{"user.*", "ore.read"}, decodeBody[userView](t, rec).Scopes)
	})

	t.Run("get unknown user", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/users/01J00000000000000000000000", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("userinfo returns the caller", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/userinfo", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, admin.ID, decodeBody[userView](t, rec).ID)
	})

	t.Run("default scopes are public", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/default_scopes", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[map[string][]string](t, rec)
		require.ElementsMatch(t, testDefaultScopes, resp["default_scopes"])
	})
}

func TestMiningSessionEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice", "hunter2hunter2", []string{"mining_session.*", "ore.*", "station.*", "method.*"})
	bob := api.seedUser(t, "bob", "hunter2hunter2", nil)
	token := api.token(t, alice)

	ore := decodeBody[oreView](t, api.do(t, http.MethodPost, "/v1/ores", token, map[string]string{"name": "Quantainium"}))
	station := decodeBody[stationView](t, api.do(t, http.MethodPost, "/v1/stations", token, map[string]any{"name": "ARC-L1"}))
	method := decodeBody[methodView](t, api.do(t, http.MethodPost, "/v1/methods", token, map[string]any{
		"name": "Dinyx Solventation",
		"efficiencies": []map[string]any{
			{"ore_id": ore.ID, "efficiency": 0.99, "duration": 45},
		},
	}))

	rec := api.do(t, http.MethodPost, "/v1/mining_sessions", token, map[string]any{
		"name":          "Halo run",
		"users_invited": []string{bob.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeBody[sessionView](t, rec)
	require.Equal(t, alice.ID, session.Creator.ID)
	require.Len(t, session.UsersInvited, 1)

	t.Run("entry lifecycle", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/v1/mining_sessions/"+session.ID+"/entries", token, map[string]any{
			"station_id": station.ID,
			"ore_id":     ore.ID,
			"method_id":  method.ID,
			"quantity":   32.5,
			"duration":   45,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		entry := decodeBody[entryView](t, rec)
		// Creator defaulted from the bearer token.
		require.Equal(t, alice.ID, entry.User.ID)

		rec = api.do(t, http.MethodPatch, "/v1/mining_sessions/"+session.ID+"/entries/"+entry.ID, token, map[string]any{
			"quantity": 40,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.InDelta(t, 40, decodeBody[entryView](t, rec).Quantity, 1e-9)

		rec = api.do(t, http.MethodGet, "/v1/mining_sessions/"+session.ID+"/entries", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, decodeBody[ListResponse[entryView]](t, rec).TotalCount)
	})

	t.Run("archive then clear via explicit null", func(t *testing.T) {
		rec := api.do(t, http.MethodPatch, "/v1/mining_sessions/"+session.ID, token, map[string]any{
			"archived":  time.Now().UTC().Format(time.RFC3339),
			"yield_scu": 123.4,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		updated := decodeBody[sessionView](t, rec)
		require.NotNil(t, updated.Archived)
		require.NotNil(t, updated.YieldSCU)

		rec = api.do(t, http.MethodPatch, "/v1/mining_sessions/"+session.ID, token, map[string]any{
			"archived": nil,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		cleared := decodeBody[sessionView](t, rec)
		require.Nil(t, cleared.Archived)
		// Untouched fields survive.
		require.NotNil(t, cleared.YieldSCU)
	})

	t.Run("list carries counts", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/mining_sessions", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[ListResponse[sessionListItemView]](t, rec)
		require.Equal(t, 1, resp.TotalCount)
		require.Equal(t, 1, resp.Items[0].UsersInvitedCount)
		require.Equal(t, 1, resp.Items[0].EntriesCount)
	})
}

func TestFriendEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice", "hunter2hunter2", []string{"friendship.*", "user.read"})
	bob := api.seedUser(t, "bob", "hunter2hunter2", []string{"friendship.*"})

	aliceToken := api.token(t, alice)
	bobToken := api.token(t, bob)

	rec := api.do(t, http.MethodPost, "/v1/users/"+alice.ID+"/friends", aliceToken, map[string]string{
		"friend_id": bob.ID,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("bob sees the incoming request and confirms", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/v1/users/"+bob.ID+"/friends", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decodeBody[friendshipListView](t, rec)
		require.Len(t, list.Incoming, 1)
		require.Nil(t, list.Incoming[0].Confirmed)

		rec = api.do(t, http.MethodPut, "/v1/users/"+bob.ID+"/friends/"+alice.ID, bobToken, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(t, http.MethodGet, "/v1/users/"+bob.ID+"/friends", bobToken, nil)
		list = decodeBody[friendshipListView](t, rec)
		require.NotNil(t, list.Incoming[0].Confirmed)
	})

	t.Run("remove", func(t *testing.T) {
		rec := api.do(t, http.MethodDelete, "/v1/users/"+alice.ID+"/friends/"+bob.ID, aliceToken, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
