// Package navigation derives the active view from a URL fragment and keeps a
// session's fragment history.
package navigation

import (
	"regexp"
	"strconv"
	"strings"
)

type ViewName string

const (
	ViewHome    ViewName = "home"
	ViewDetails ViewName = "details"
)

type View struct {
	Name   ViewName `json:"name"`
	BookID int      `json:"book_id,omitempty"`
}

var Home = View{Name: ViewHome}

var bookFragment = regexp.MustCompile(`^#?book/(\d+)$`)

// Lookup reports whether a book with the given id currently exists.
type Lookup func(id int) bool

// Resolve is a pure function of the fragment and the catalog: a fragment
// naming a missing book resolves home, never to an error.
func Resolve(fragment string, exists Lookup) View {
	m := bookFragment.FindStringSubmatch(strings.TrimSpace(fragment))
	if m == nil {
		return Home
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || exists == nil || !exists(id) {
		return Home
	}
	return View{Name: ViewDetails, BookID: id}
}

func BookFragment(id int) string {
	return "book/" + strconv.Itoa(id)
}
