package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/chat"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/search"
	"github.com/Skotchmaster/bookstore/internal/seed"
	"github.com/Skotchmaster/bookstore/internal/storefront"
	"github.com/Skotchmaster/bookstore/internal/tokens"
)

type echoCompleter struct{}

func (echoCompleter) Stream(_ context.Context, history []chat.Turn) <-chan chat.Fragment {
	ch := make(chan chat.Fragment, 2)
	ch <- chat.Fragment{Text: "You said: "}
	ch <- chat.Fragment{Text: history[len(history)-1].Text}
	close(ch)
	return ch
}

type testEnv struct {
	t       *testing.T
	e       *echo.Echo
	manager *storefront.Manager
	store   *catalog.Store
	orders  *repo.Orders
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	data, err := seed.Load("")
	require.NoError(t, err)
	books, err := data.CatalogBooks()
	require.NoError(t, err)
	store, err := catalog.NewStore(books)
	require.NoError(t, err)
	users, err := auth.NewSeededStore(data.Users)
	require.NoError(t, err)
	db, err := repo.Open(context.Background(), "")
	require.NoError(t, err)
	orders := &repo.Orders{DB: db}

	manager := storefront.NewManager(&storefront.Shop{
		Catalog:   &catalog.Service{Store: store},
		Users:     users,
		Orders:    orders,
		Completer: echoCompleter{},
	})

	deps := &Deps{
		Catalog: &CatalogHTTP{Store: store, Search: &search.Memory{Books: store}},
		Admin:   &AdminHTTP{Books: store, Users: users, Orders: orders},
		Session: sessionmw.Config{Manager: manager, Secret: []byte("test-secret")},
	}
	for _, opt := range opts {
		opt(deps)
	}
	e := echo.New()
	Register(e, deps)
	return &testEnv{t: t, e: e, manager: manager, store: store, orders: orders}
}

// client is one browser: it keeps the session cookie between requests.
type client struct {
	env    *testEnv
	cookie *http.Cookie
}

func (env *testEnv) client() *client { return &client{env: env} }

func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(cl.env.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	rec := httptest.NewRecorder()
	cl.env.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.SessionCookie {
			cl.cookie = ck
		}
	}
	return rec
}

func (cl *client) login(username, password string) {
	cl.env.t.Helper()
	rec := cl.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(cl.env.t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
