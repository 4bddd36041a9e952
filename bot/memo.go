package bot

import (
	"sync"
	"time"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/board"
)

type memoKey struct {
	hash   uint64
	budget time.Duration
}

// decisionMemo remembers recent decisions. The browser loop often asks about
// the same board twice when a key press did not register. Oldest entries
// are evicted first.
type decisionMemo struct {
	sync.Mutex
	entries map[memoKey]*aibot.Decision
	order   []memoKey
	size    int
	hits    int
}

func newDecisionMemo(size int) *decisionMemo {
	return &decisionMemo{entries: make(map[memoKey]*aibot.Decision), size: size}
}

func (m *decisionMemo) get(b board.Board, budget time.Duration) (*aibot.Decision, bool) {
	if m.size <= 0 {
		return nil, false
	}
	m.Lock()
	defer m.Unlock()
	d, ok := m.entries[memoKey{b.Hash(), budget}]
	if ok {
		m.hits++
	}
	return d, ok
}

func (m *decisionMemo) put(b board.Board, budget time.Duration, d *aibot.Decision) {
	if m.size <= 0 {
		return
	}
	m.Lock()
	defer m.Unlock()
	k := memoKey{b.Hash(), budget}
	if _, ok := m.entries[k]; ok {
		return
	}
	if len(m.order) >= m.size {
		delete(m.entries, m.order[0])
		m.order = m.order[1:]
	}
	m.entries[k] = d
	m.order = append(m.order, k)
}

func (m *decisionMemo) stats() (entries, hits int) {
	m.Lock()
	defer m.Unlock()
	return len(m.entries), m.hits
}
