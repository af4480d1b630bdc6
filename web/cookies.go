package web

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"schoolhub/core/session"
)

const (
	// sessionCookie is the well-known name of the durable session record.
	// "Remember me" decides whether the cookie outlives the browser session;
	// the record format is the same either way.
	sessionCookie = "schoolhub-session"
	flashCookie   = "schoolhub-flash"
	tabCookie     = "schoolhub-tab"

	sessionKey  = "session"
	rememberKey = "remember"
)

// Notification is a transient user-visible message. It is rendered once and
// auto-dismissed client-side.
type Notification struct {
	Type    string // success | error | info
	Message string
}

func init() {
	gob.Register(Notification{})
}

// CookieStore persists the session record and flash notifications in signed,
// encrypted cookies.
type CookieStore struct {
	store          *sessions.CookieStore
	rememberMaxAge int
}

// NewCookieStore derives signing and encryption keys from the configured
// secret. The secret never touches the cookie directly.
func NewCookieStore(secret string, rememberMaxAge time.Duration) *CookieStore {
	if secret == "" {
		// sessions won't survive a restart without a configured key
		secret = string(securecookie.GenerateRandomKey(32))
	}
	authKey := pbkdf2.Key([]byte(secret), []byte("schoolhub-auth"), 4096, 64, sha256.New)
	encKey := pbkdf2.Key([]byte(secret), []byte("schoolhub-enc"), 4096, 32, sha256.New)

	store := sessions.NewCookieStore(authKey, encKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store, rememberMaxAge: int(rememberMaxAge.Seconds())}
}

// Save writes the session record. remember selects the long-lived scope;
// without it the cookie dies with the browser session.
func (cs *CookieStore) Save(c echo.Context, sess session.Session, remember bool) error {
	record, err := cs.store.New(c.Request(), sessionCookie)
	if err != nil && record == nil {
		return errors.Wrap(err, "opening session cookie")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session record")
	}
	record.Values[sessionKey] = string(data)
	record.Values[rememberKey] = remember
	if remember {
		record.Options.MaxAge = cs.rememberMaxAge
	} else {
		record.Options.MaxAge = 0 // browser-session scoped
	}
	return errors.Wrap(record.Save(c.Request(), c.Response()), "saving session cookie")
}

// Load rehydrates the session record from either scope, along with the
// remember flag it was saved under. A missing or corrupt record yields an
// anonymous session. Expiry is the caller's concern: an expired record may
// still carry a refresh token worth trading in.
func (cs *CookieStore) Load(c echo.Context) (session.Session, bool) {
	record, err := cs.store.Get(c.Request(), sessionCookie)
	if err != nil || record.IsNew {
		return session.Session{}, false
	}
	raw, ok := record.Values[sessionKey].(string)
	if !ok {
		return session.Session{}, false
	}
	var sess session.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return session.Session{}, false
	}
	if !sess.Authenticated() {
		return session.Session{}, false
	}
	remember, _ := record.Values[rememberKey].(bool)
	return sess, remember
}

// Clear destroys the session record regardless of which scope holds it.
func (cs *CookieStore) Clear(c echo.Context) {
	record, _ := cs.store.Get(c.Request(), sessionCookie)
	if record != nil {
		record.Options.MaxAge = -1
		delete(record.Values, sessionKey)
		_ = record.Save(c.Request(), c.Response())
	}
	// belt and braces for records the codec no longer accepts
	http.SetCookie(c.Response(), &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Flash queues a notification for the next rendered page.
func (cs *CookieStore) Flash(c echo.Context, typ, message string) {
	record, _ := cs.store.Get(c.Request(), flashCookie)
	if record == nil {
		return
	}
	record.Options.MaxAge = 0
	record.AddFlash(Notification{Type: typ, Message: message})
	_ = record.Save(c.Request(), c.Response())
}

// Flashes drains queued notifications.
func (cs *CookieStore) Flashes(c echo.Context) []Notification {
	record, err := cs.store.Get(c.Request(), flashCookie)
	if err != nil || record == nil {
		return nil
	}
	raw := record.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = record.Save(c.Request(), c.Response())

	notes := make([]Notification, 0, len(raw))
	for _, f := range raw {
		if n, ok := f.(Notification); ok {
			notes = append(notes, n)
		}
	}
	return notes
}

// SaveActiveTab remembers the last used dashboard tab. UI convenience only;
// not authentication-relevant.
func SaveActiveTab(c echo.Context, tab int) {
	http.SetCookie(c.Response(), &http.Cookie{
		Name:   tabCookie,
		Value:  strconv.Itoa(tab),
		Path:   "/",
		MaxAge: int((90 * 24 * time.Hour).Seconds()),
	})
}

// ActiveTab returns the last used tab, or the default when none is recorded.
func ActiveTab(c echo.Context) int {
	cookie, err := c.Cookie(tabCookie)
	if err != nil {
		return defaultTab
	}
	tab, err := strconv.Atoi(cookie.Value)
	if err != nil || tab < 1 || tab > lastTab {
		return defaultTab
	}
	return tab
}
