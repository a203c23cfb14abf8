package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"pkt.systems/folio/internal/logx"
	"pkt.systems/folio/internal/sessionprefs"
	"pkt.systems/folio/schema"
)

// visitor is an anonymous browser identified by a cookie. It only carries
// preferences; there are no accounts.
type visitor struct {
	id        string
	expiresAt time.Time
	prefs     *sessionprefs.Prefs
}

type visitorStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	theme schema.ThemeName
	now   func() time.Time
	items map[string]visitor
}

func newVisitorStore(ttl time.Duration, theme schema.ThemeName) *visitorStore {
	if ttl <= 0 {
		ttl = defaultVisitorTTL
	}
	return &visitorStore{
		ttl:   ttl,
		theme: theme,
		now:   time.Now,
		items: make(map[string]visitor),
	}
}

func (s *visitorStore) create() (string, visitor) {
	token := randomToken(32)
	entry := visitor{
		id:        randomToken(12),
		expiresAt: s.now().Add(s.ttl),
		prefs:     sessionprefs.New(s.theme),
	}
	s.mu.Lock()
	s.items[token] = entry
	s.mu.Unlock()
	logx.Ctx(context.Background()).With("visitor", entry.id).Debug("visitor created", "expires", entry.expiresAt.Format(time.RFC3339))
	return token, entry
}

// get returns the visitor for token and slides its expiry.
func (s *visitorStore) get(token string) (visitor, bool) {
	if token == "" {
		return visitor{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[token]
	if !ok {
		return visitor{}, false
	}
	now := s.now()
	if now.After(entry.expiresAt) {
		delete(s.items, token)
		logx.Ctx(context.Background()).With("visitor", entry.id).Debug("visitor expired")
		return visitor{}, false
	}
	entry.expiresAt = now.Add(s.ttl)
	s.items[token] = entry
	return entry, true
}

func (s *visitorStore) delete(token string) {
	s.mu.Lock()
	entry, ok := s.items[token]
	delete(s.items, token)
	s.mu.Unlock()
	if ok {
		logx.Ctx(context.Background()).With("visitor", entry.id).Debug("visitor deleted")
	}
}

// sweep drops expired visitors and reports how many were removed.
func (s *visitorStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, token)
			removed++
		}
	}
	return removed
}

func (s *visitorStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func randomToken(size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
