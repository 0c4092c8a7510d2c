package navigation

import "strings"

// MaxHistory bounds the entries a session keeps. The oldest are dropped first.
const MaxHistory = 50

// Navigator is the fragment history of one session. The first entry is the
// fragment the session started on.
type Navigator struct {
	history []string
}

func NewNavigator(initial string) *Navigator {
	return &Navigator{history: []string{normalize(initial)}}
}

func (n *Navigator) Fragment() string {
	return n.history[len(n.history)-1]
}

func (n *Navigator) Open(bookID int) {
	n.push(BookFragment(bookID))
}

// SetFragment records a fragment change made by the client.
func (n *Navigator) SetFragment(f string) {
	n.push(normalize(f))
}

// Back pops to the previous entry, or resets the fragment when the session
// has no prior entry.
func (n *Navigator) Back() {
	if len(n.history) > 1 {
		n.history = n.history[:len(n.history)-1]
		return
	}
	n.history[0] = ""
}

// Home resets the fragment without rewinding history.
func (n *Navigator) Home() {
	if n.Fragment() != "" {
		n.push("")
	}
}

func (n *Navigator) Depth() int { return len(n.history) }

func (n *Navigator) Current(exists Lookup) View {
	return Resolve(n.Fragment(), exists)
}

func (n *Navigator) push(f string) {
	if f == n.Fragment() {
		return
	}
	n.history = append(n.history, f)
	if over := len(n.history) - MaxHistory; over > 0 {
		n.history = append(n.history[:0], n.history[over:]...)
	}
}

func normalize(f string) string {
	return strings.TrimPrefix(strings.TrimSpace(f), "#")
}
