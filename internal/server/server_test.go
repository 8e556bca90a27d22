package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/auth"
	"github.com/at-ishikawa/dictionary-api/internal/cache"
	"github.com/at-ishikawa/dictionary-api/internal/config"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/metrics"
	mock_dictionary "github.com/at-ishikawa/dictionary-api/internal/mocks/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/recorder"
)

const (
	testToken     = "secret-token"
	appleDocument = `{"word":"apple","results":[{"definition":"fruit with red or yellow or green skin"}]}`
)

var testUser = &auth.User{ID: 7, Name: "Ada", Email: "ada@example.com"}

type fakeUsers struct{}

func (fakeUsers) FindByTokenHash(_ context.Context, tokenHash string) (*auth.User, error) {
	if tokenHash == auth.HashToken(testToken) {
		return testUser, nil
	}
	return nil, nil
}

func (fakeUsers) Create(context.Context, string, string, string) (*auth.User, error) {
	return nil, errors.New("not supported")
}

type fakeRecorder struct {
	mu          sync.Mutex
	lookups     []string
	lookupErr   error
	favoriteErr error
	entries     []recorder.Entry
}

func (f *fakeRecorder) Favorite(_ context.Context, _ int64, _, _ string) error {
	return f.favoriteErr
}

func (f *fakeRecorder) Unfavorite(_ context.Context, _ int64, _, _ string) error {
	return f.favoriteErr
}

func (f *fakeRecorder) Favorites(context.Context, int64) ([]recorder.Entry, error) {
	return f.entries, nil
}

func (f *fakeRecorder) RecordLookup(_ context.Context, _ int64, word string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, word)
	return f.lookupErr
}

func (f *fakeRecorder) History(context.Context, int64) ([]recorder.Entry, error) {
	return nil, nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}

type testEnv struct {
	words    *mock_dictionary.MockWordStore
	provider *mock_dictionary.MockProvider
	recorder *fakeRecorder
	metrics  *metrics.Recorder
	expect   *httpexpect.Expect
}

func newTestEnv(t *testing.T, db Pinger) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	env := &testEnv{
		words:    mock_dictionary.NewMockWordStore(ctrl),
		provider: mock_dictionary.NewMockProvider(ctrl),
		recorder: &fakeRecorder{},
		metrics:  metrics.NewRecorder(nil),
	}

	memoizer := cache.NewMemoizer(cache.NewMemoryStore(0))
	handler := NewHandler(config.ServerConfig{}, Dependencies{
		Listings: dictionary.NewListingCache(env.words, memoizer, dictionary.ListingConfig{
			KeyPrefix: "dictionary",
			TTL:       time.Hour,
			Languages: []string{"en"},
		}, nil),
		Lookups: dictionary.NewLookupCache(env.provider, memoizer, dictionary.LookupConfig{
			KeyPrefix: "dictionary",
			TTL:       time.Hour,
		}),
		Recorder: env.recorder,
		Users:    fakeUsers{},
		DB:       db,
		Metrics:  env.metrics,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	env.expect = httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  srv.URL,
		Reporter: httpexpect.NewRequireReporter(t),
		Client:   srv.Client(),
	})
	return env
}

func (env *testEnv) authed(method, path string, pathargs ...interface{}) *httpexpect.Request {
	return env.expect.Request(method, path, pathargs...).WithHeader("Authorization", "Bearer "+testToken)
}

func TestPublicRoutes(t *testing.T) {
	env := newTestEnv(t, fakePinger{})

	env.expect.GET("/").Expect().Status(http.StatusOK).
		JSON().Object().HasValue("message", "Dictionary API")
	env.expect.GET("/healthz").Expect().Status(http.StatusOK).
		JSON().Object().HasValue("status", "ok")
}

func TestHealthz_DatabaseDown(t *testing.T) {
	env := newTestEnv(t, fakePinger{err: errors.New("connection refused")})

	env.expect.GET("/healthz").Expect().Status(http.StatusServiceUnavailable).
		JSON().Object().HasValue("status", "unavailable")
}

func TestAuthenticationRequired(t *testing.T) {
	env := newTestEnv(t, fakePinger{})

	for _, path := range []string{"/user/me", "/user/me/favorites", "/user/me/history", "/entries/en", "/entries/en/apple"} {
		env.expect.GET(path).Expect().Status(http.StatusUnauthorized).
			JSON().Object().HasValue("message", "Unauthenticated.")
	}
	env.expect.GET("/entries/en").WithHeader("Authorization", "Bearer wrong").
		Expect().Status(http.StatusUnauthorized)
}

func TestUserRoutes(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	added := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	env.recorder.entries = []recorder.Entry{{Word: "apple", Added: added}}

	me := env.authed(http.MethodGet, "/user/me").Expect().Status(http.StatusOK).JSON().Object()
	me.HasValue("id", 7)
	me.HasValue("name", "Ada")
	me.HasValue("email", "ada@example.com")
	me.NotContainsKey("CreatedAt")

	favorites := env.authed(http.MethodGet, "/user/me/favorites").Expect().Status(http.StatusOK).JSON().Array()
	favorites.Length().IsEqual(1)
	favorites.Value(0).Object().HasValue("word", "apple").HasValue("added", "2024-05-01T10:00:00Z")

	env.authed(http.MethodGet, "/user/me/history").Expect().Status(http.StatusOK).
		JSON().Array().IsEmpty()
}

func TestListEntries(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.words.EXPECT().Count(gomock.Any(), "en", "ap").Return(int64(3), nil).Times(1)
	env.words.EXPECT().Page(gomock.Any(), "en", "ap", 2, 2).Return([]string{"apricot"}, nil).Times(1)

	first := env.authed(http.MethodGet, "/entries/{lang}", "en").
		WithQuery("search", "ap").WithQuery("limit", 2).WithQuery("page", 2).
		Expect().Status(http.StatusOK)
	first.Header("X-Cache").IsEqual("MISS")
	first.Header("X-Response-Time").HasSuffix("ms")
	body := first.JSON().Object()
	body.HasValue("results", []string{"apricot"})
	body.HasValue("totalDocs", 3)
	body.HasValue("page", 2)
	body.HasValue("totalPages", 2)
	body.HasValue("hasNext", false)
	body.HasValue("hasPrev", true)
	body.HasValue("x-cache", "MISS")
	body.Value("x-response-time").String().HasSuffix("ms")

	second := env.authed(http.MethodGet, "/entries/{lang}", "en").
		WithQuery("search", "ap").WithQuery("limit", 2).WithQuery("page", 2).
		Expect().Status(http.StatusOK)
	second.Header("X-Cache").IsEqual("HIT")
	second.JSON().Object().HasValue("x-cache", "HIT").HasValue("results", []string{"apricot"})
}

func TestListEntries_Defaults(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.words.EXPECT().Count(gomock.Any(), "en", "").Return(int64(0), nil)
	env.words.EXPECT().Page(gomock.Any(), "en", "", 0, 50).Return(nil, nil)

	body := env.authed(http.MethodGet, "/entries/en").Expect().Status(http.StatusOK).JSON().Object()
	body.HasValue("results", []string{})
	body.HasValue("page", 1)
	body.HasValue("hasNext", false)
}

func TestListEntries_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		query   map[string]string
		wantErr string
	}{
		{name: "unsupported language", path: "/entries/xx", wantErr: "Invalid language"},
		{name: "unsupported language wins over bad paging", path: "/entries/xx", query: map[string]string{"limit": "abc"}, wantErr: "Invalid language"},
		{name: "non-integer limit", path: "/entries/en", query: map[string]string{"limit": "abc"}, wantErr: "Invalid limit or page number"},
		{name: "non-integer page", path: "/entries/en", query: map[string]string{"page": "1.5"}, wantErr: "Invalid limit or page number"},
		{name: "zero limit", path: "/entries/en", query: map[string]string{"limit": "0"}, wantErr: "Invalid limit or page number"},
		{name: "negative page", path: "/entries/en", query: map[string]string{"page": "-1"}, wantErr: "Invalid limit or page number"},
		{name: "offset past int range", path: "/entries/en", query: map[string]string{"limit": "4", "page": "4611686018427387905"}, wantErr: "Invalid limit or page number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fakePinger{})
			req := env.authed(http.MethodGet, tt.path)
			for k, v := range tt.query {
				req = req.WithQuery(k, v)
			}
			req.Expect().Status(http.StatusBadRequest).JSON().Object().HasValue("error", tt.wantErr)
		})
	}
}

func TestListEntries_StoreFailure(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.words.EXPECT().Count(gomock.Any(), "en", "").Return(int64(0), errors.New("connection reset"))

	env.authed(http.MethodGet, "/entries/en").Expect().Status(http.StatusInternalServerError).
		JSON().Object().HasValue("error", "Internal server error")
}

func TestWordDetail(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.provider.EXPECT().FetchWord(gomock.Any(), "apple").Return(json.RawMessage(appleDocument), nil).Times(1)

	first := env.authed(http.MethodGet, "/entries/en/{word}", "Apple").Expect().Status(http.StatusOK)
	first.Header("X-Cache").IsEqual("MISS")
	first.Header("X-Response-Time").HasSuffix("ms")
	first.Body().IsEqual(appleDocument)

	second := env.authed(http.MethodGet, "/entries/en/{word}", "apple").Expect().Status(http.StatusOK)
	second.Header("X-Cache").IsEqual("HIT")
	second.Body().IsEqual(appleDocument)

	assert.Equal(t, []string{"apple", "apple"}, env.recorder.lookups)
}

func TestWordDetail_ProviderFailure(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.provider.EXPECT().FetchWord(gomock.Any(), "apple").Return(nil, errors.New("timeout")).Times(2)

	for i := 0; i < 2; i++ {
		env.authed(http.MethodGet, "/entries/en/apple").Expect().Status(http.StatusBadGateway).
			JSON().Object().HasValue("error", "Word data provider unavailable")
	}
	// history is recorded even though the lookup failed
	assert.Equal(t, []string{"apple", "apple"}, env.recorder.lookups)
}

func TestWordDetail_HistoryFailure(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.recorder.lookupErr = errors.New("deadlock")

	env.authed(http.MethodGet, "/entries/en/apple").Expect().Status(http.StatusInternalServerError).
		JSON().Object().HasValue("error", "Internal server error")
}

func TestFavorite(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		err         error
		wantStatus  int
		wantKey     string
		wantMessage string
	}{
		{name: "favorite", method: http.MethodPost, wantStatus: http.StatusOK, wantKey: "message", wantMessage: "Word favorited successfully"},
		{name: "unfavorite", method: http.MethodDelete, wantStatus: http.StatusOK, wantKey: "message", wantMessage: "Word unfavorited successfully"},
		{name: "unknown word", method: http.MethodPost, err: apperr.NotFound("Word not found"), wantStatus: http.StatusNotFound, wantKey: "error", wantMessage: "Word not found"},
		{name: "already favorited", method: http.MethodPost, err: apperr.Conflict("Word already favorited"), wantStatus: http.StatusBadRequest, wantKey: "error", wantMessage: "Word already favorited"},
		{name: "not favorited", method: http.MethodDelete, err: apperr.Conflict("Word is not favorited"), wantStatus: http.StatusBadRequest, wantKey: "error", wantMessage: "Word is not favorited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fakePinger{})
			env.recorder.favoriteErr = tt.err

			env.authed(tt.method, "/entries/en/apple/favorite").Expect().Status(tt.wantStatus).
				JSON().Object().HasValue(tt.wantKey, tt.wantMessage)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	env := newTestEnv(t, fakePinger{})
	env.expect.GET("/").Expect().Status(http.StatusOK)

	body := env.expect.GET("/metrics").Expect().Status(http.StatusOK).Body().Raw()
	assert.True(t, strings.Contains(body, `dictionary_http_requests_total{method="GET",route="/",status_code="200"} 1`), body)
}

func TestCORS(t *testing.T) {
	handler := NewHandler(config.ServerConfig{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}, Dependencies{DB: fakePinger{}, Users: fakeUsers{}})

	req := httptest.NewRequest(http.MethodOptions, "/entries/en", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIntParam(t *testing.T) {
	tests := []struct {
		value  string
		want   int
		wantOK bool
	}{
		{value: "", want: 50, wantOK: true},
		{value: "10", want: 10, wantOK: true},
		{value: "-3", want: -3, wantOK: true},
		{value: "ten", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := intParam(tt.value, 50)
		require.Equal(t, tt.wantOK, ok, tt.value)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 8080, ReadTimeout: time.Second}, http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
}
