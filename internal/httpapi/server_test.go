package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
	"github.com/fyrsmithlabs/sweepd/internal/rules"
	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// fakeStore is an in-memory Store implementation.
type fakeStore struct {
	users  map[int32]*store.User
	prefs  map[int32]*store.Preferences
	nextID int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[int32]*store.User),
		prefs:  make(map[int32]*store.Preferences),
		nextID: 1,
	}
}

func (f *fakeStore) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	for _, u := range f.users {
		if u.Username == create.Username {
			return nil, store.ErrAlreadyExists
		}
	}
	user := &store.User{ID: f.nextID, UID: create.UID, Username: create.Username}
	f.users[user.ID] = user
	f.prefs[user.ID] = store.DefaultPreferences(user.ID)
	f.nextID++
	return user, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int32) (*store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetPreferences(_ context.Context, userID int32) (*store.Preferences, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) UpdatePreferences(_ context.Context, update *store.UpdatePreferences) (*store.Preferences, error) {
	p, ok := f.prefs[update.UserID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if update.LanguageFilter != nil {
		p.LanguageFilter = *update.LanguageFilter
	}
	if update.SexualContentFilter != nil {
		p.SexualContentFilter = *update.SexualContentFilter
	}
	if update.ViolenceFilter != nil {
		p.ViolenceFilter = *update.ViolenceFilter
	}
	if update.LanguageSensitivity != nil {
		p.LanguageSensitivity = *update.LanguageSensitivity
	}
	if update.SexualContentSensitivity != nil {
		p.SexualContentSensitivity = *update.SexualContentSensitivity
	}
	if update.ViolenceSensitivity != nil {
		p.ViolenceSensitivity = *update.ViolenceSensitivity
	}
	return p, nil
}

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	st := newFakeStore()

	eng, err := engine.New(&PreferencesProvider{Store: st}, rules.Default(), zaptest.NewLogger(t))
	require.NoError(t, err)

	srv, err := NewServer(eng, st, zaptest.NewLogger(t), &Config{Version: "test"})
	require.NoError(t, err)
	return srv, st
}

func seedUser(t *testing.T, st *fakeStore, username string) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), &store.User{UID: "uid-" + username, Username: username})
	require.NoError(t, err)
	return user
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "sweepd", body.Service)
	assert.Equal(t, "test", body.Version)
}

func TestCreateUser(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("creates with default preferences", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/users", `{"username":"alice"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody[CreateUserResponse](t, rec)
		assert.Equal(t, "alice", body.Username)
		assert.NotZero(t, body.UserID)
		require.NotNil(t, body.Preferences)
		assert.True(t, body.Preferences.LanguageFilter)
		assert.Equal(t, store.DefaultSensitivity, body.Preferences.ViolenceSensitivity)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/users", `{"username":"alice"}`)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Username already exists", decodeBody[ErrorResponse](t, rec).Error)
	})

	t.Run("missing username rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/users", `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username is required", decodeBody[ErrorResponse](t, rec).Error)
	})
}

func TestGetPreferences(t *testing.T) {
	srv, st := newTestServer(t)
	user := seedUser(t, st, "bob")

	t.Run("existing user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/users/1/preferences", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[store.Preferences](t, rec)
		assert.Equal(t, user.ID, body.UserID)
		assert.True(t, body.SexualContentFilter)
		assert.Equal(t, "medium", body.LanguageSensitivity)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/users/999/preferences", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeBody[ErrorResponse](t, rec).Error)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/users/abc/preferences", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdatePreferences(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "carol")

	t.Run("partial update keeps other fields", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/users/1/preferences",
			`{"violence_filter":false,"language_sensitivity":"high"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[UpdatePreferencesResponse](t, rec)
		assert.Equal(t, "Preferences updated successfully", body.Message)
		require.NotNil(t, body.Preferences)
		assert.False(t, body.Preferences.ViolenceFilter)
		assert.Equal(t, "high", body.Preferences.LanguageSensitivity)
		assert.True(t, body.Preferences.SexualContentFilter, "untouched field keeps its value")
		assert.Equal(t, "medium", body.Preferences.SexualContentSensitivity)
	})

	t.Run("invalid sensitivity rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/users/1/preferences",
			`{"violence_sensitivity":"extreme"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "violence_sensitivity")
	})

	t.Run("empty update rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/users/1/preferences", `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Request body is required", decodeBody[ErrorResponse](t, rec).Error)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/users/999/preferences",
			`{"language_filter":false}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAnalyze(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "dave")

	t.Run("clean text", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/analyze",
			`{"user_id":1,"text":"a lovely picnic by the lake"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[AnalyzeResponse](t, rec)
		assert.Equal(t, "none", body.Action)
		assert.Equal(t, "a lovely picnic by the lake", body.Text)
		assert.Equal(t, int32(1), body.UserID)
	})

	t.Run("profanity mutes", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/analyze",
			`{"user_id":1,"text":"this is a damn good scene"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "mute", decodeBody[AnalyzeResponse](t, rec).Action)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/analyze", `{"text":"damn"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "user_id and text are required", decodeBody[ErrorResponse](t, rec).Error)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/analyze", `{"user_id":999,"text":"damn"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventAlwaysAnswers200(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "erin")

	tests := []struct {
		name         string
		body         string
		wantAction   string
		wantReason   string
		wantCategory string
	}{
		{
			name:       "no match",
			body:       `{"user_id":1,"text":"a quiet walk in the park"}`,
			wantAction: "none",
			wantReason: "No match",
		},
		{
			name:         "profanity",
			body:         `{"user_id":1,"text":"this is a damn good scene"}`,
			wantAction:   "mute",
			wantReason:   "language content detected; sensitivity=medium; severity=1",
			wantCategory: "language",
		},
		{
			name:       "numeric string user id",
			body:       `{"user_id":"1","text":"a quiet walk in the park"}`,
			wantAction: "none",
			wantReason: "No match",
		},
		{
			name:       "unknown user",
			body:       `{"user_id":"9999999","text":"damn"}`,
			wantAction: "none",
			wantReason: "Unknown user",
		},
		{
			name:       "missing text",
			body:       `{"user_id":1}`,
			wantAction: "none",
			wantReason: "Invalid payload",
		},
		{
			name:       "non-numeric user id",
			body:       `{"user_id":"abc","text":"damn"}`,
			wantAction: "none",
			wantReason: "Invalid payload",
		},
		{
			name:       "garbage body",
			body:       `{not json`,
			wantAction: "none",
			wantReason: "Invalid payload",
		},
		{
			name:         "confidence is accepted and ignored",
			body:         `{"user_id":1,"text":"the gun fight started","confidence":0.42}`,
			wantAction:   "fast_forward",
			wantReason:   "violence content detected; sensitivity=medium; severity=2",
			wantCategory: "violence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/event", tt.body)

			require.Equal(t, http.StatusOK, rec.Code, "decision endpoint never fails over HTTP")
			body := decodeBody[engine.Decision](t, rec)
			assert.Equal(t, tt.wantAction, string(body.Action))
			assert.Equal(t, tt.wantReason, body.Reason)
			if tt.wantCategory == "" {
				assert.Nil(t, body.MatchedCategory)
			} else {
				require.NotNil(t, body.MatchedCategory)
				assert.Equal(t, tt.wantCategory, string(*body.MatchedCategory))
			}
		})
	}
}

func TestPreferencesProviderMapsNotFound(t *testing.T) {
	st := newFakeStore()
	provider := &PreferencesProvider{Store: st}

	_, err := provider.GetPreferences(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrUserNotFound)
}
