package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/search"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/internal/util"
)

const (
	featuredCount = 6
	relatedCount  = 4
)

type CatalogHTTP struct {
	Store  *catalog.Store
	Search search.Searcher
}

func (h *CatalogHTTP) Categories(c echo.Context) error {
	out := make([]string, 0, len(models.Categories)+1)
	out = append(out, models.CategoryAll)
	for _, cat := range models.Categories {
		out = append(out, string(cat))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) GetBooks(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "catalog.get_books")

	category := c.QueryParam("category")
	if category != "" && category != models.CategoryAll {
		if _, err := models.ParseCategory(category); err != nil {
			return badRequest(l, "get_books", "unknown category", err)
		}
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	books := h.Store.List(category)
	return c.JSON(http.StatusOK, transport.BookPage{
		Data: util.Slice(books, offset, limit),
		Meta: util.Meta(page, limit, int64(len(books))),
	})
}

func (h *CatalogHTTP) GetFeatured(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Featured(featuredCount))
}

func (h *CatalogHTTP) GetBook(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "catalog.get_book")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_book", "id is not an integer", err)
	}
	b, err := h.Store.Get(id)
	if err != nil {
		return fail(l, "get_book", err, "cannot get book")
	}
	return c.JSON(http.StatusOK, transport.BookDetails{Book: b, Related: h.Store.Related(id, relatedCount)})
}

func (h *CatalogHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return badRequest(l, "search", "query is required", nil)
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Search.Search(ctx, q, offset, limit)
	if err != nil {
		return fail(l, "search", err, "search unavailable")
	}
	return c.JSON(http.StatusOK, transport.BookPage{Data: res.Books, Meta: util.Meta(page, limit, res.Total)})
}
