package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/transport"
)

func TestCategories(t *testing.T) {
	cl := newTestEnv(t).client()
	rec := cl.do(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cats := decode[[]string](t, rec)
	assert.Equal(t, "All", cats[0])
	assert.Contains(t, cats, "Comics & Manga")
}

func TestGetBooks_FilterAndPaginate(t *testing.T) {
	cl := newTestEnv(t).client()

	rec := cl.do(http.MethodGet, "/api/v1/books?category=Comics+%26+Manga", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.BookPage](t, rec)
	require.Len(t, page.Data, 2)
	assert.EqualValues(t, 2, page.Meta.Total)

	rec = cl.do(http.MethodGet, "/api/v1/books?page=2&size=3", nil)
	page = decode[transport.BookPage](t, rec)
	require.Len(t, page.Data, 3)
	assert.Equal(t, 4, page.Data[0].ID)
	assert.True(t, page.Meta.HasPrev)
	assert.True(t, page.Meta.HasNext)

	rec = cl.do(http.MethodGet, "/api/v1/books?category=Cookbooks", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBook(t *testing.T) {
	cl := newTestEnv(t).client()

	rec := cl.do(http.MethodGet, "/api/v1/books/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[transport.BookDetails](t, rec)
	assert.Equal(t, "Jujutsu Kaisen Vol. 20", d.Book.Title)
	require.Len(t, d.Related, 1)
	assert.Equal(t, 8, d.Related[0].ID)

	assert.Equal(t, http.StatusNotFound, cl.do(http.MethodGet, "/api/v1/books/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, cl.do(http.MethodGet, "/api/v1/books/abc", nil).Code)
}

func TestFeaturedAndSearch(t *testing.T) {
	cl := newTestEnv(t).client()

	rec := cl.do(http.MethodGet, "/api/v1/books/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]any](t, rec), featuredCount)

	rec = cl.do(http.MethodGet, "/api/v1/search?q=atomic", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.BookPage](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 5, page.Data[0].ID)

	assert.Equal(t, http.StatusBadRequest, cl.do(http.MethodGet, "/api/v1/search?q=+", nil).Code)
}

func TestGetBook_DirectContext(t *testing.T) {
	env := newTestEnv(t)
	h := &CatalogHTTP{Store: env.store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/1", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.GetBook(c))
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[transport.BookDetails](t, rec)
	require.NotNil(t, d.Book.OriginalPrice)
	assert.EqualValues(t, 520, *d.Book.OriginalPrice)

	c.SetParamValues("42")
	err := h.GetBook(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetBooks_HugePage(t *testing.T) {
	cl := newTestEnv(t).client()

	rec := cl.do(http.MethodGet, "/api/v1/books?page=9223372036854775807&size=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.BookPage](t, rec)
	assert.Empty(t, page.Data)
	assert.False(t, page.Meta.HasNext)

	rec = cl.do(http.MethodGet, "/api/v1/search?q=thai&page=9223372036854775807", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[transport.BookPage](t, rec).Data)
}
