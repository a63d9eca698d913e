// Package flash implements one-time user notices carried across a redirect
// in a short-lived cookie. A notice added before a redirect is rendered by
// the next page load and then discarded.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const cookieName = "flash"

// gin context key holding the notices queued during this request cycle
const pendingKey = "flash.pending"

// cookie lifetime; a flash that is never rendered should not linger
const maxAgeSeconds = 300

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

type Manager struct {
	Domain string
	Secure bool
}

func NewManager(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// Add appends a notice to the flash cookie, preserving any notices already
// queued during this request cycle.
func (m *Manager) Add(c *gin.Context, level Level, text string) {
	msgs := append(m.pending(c), Message{Level: level, Text: text})
	c.Set(pendingKey, msgs)
	b, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, base64.RawURLEncoding.EncodeToString(b), maxAgeSeconds, "/", m.Domain, m.Secure, true)
}

// Pop returns all queued notices and clears the cookie.
func (m *Manager) Pop(c *gin.Context) []Message {
	msgs := m.pending(c)
	c.Set(pendingKey, []Message{})
	if len(msgs) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, "", -1, "/", m.Domain, m.Secure, true)
	}
	return msgs
}

// pending returns the notices queued so far in this request cycle. The
// first touch seeds the queue from the request cookie; after that the gin
// context is authoritative, so a notice added after Pop does not
// resurrect the popped ones and repeated Adds append instead of
// overwriting.
func (m *Manager) pending(c *gin.Context) []Message {
	if v, ok := c.Get(pendingKey); ok {
		msgs, _ := v.([]Message)
		return msgs
	}
	return m.peek(c)
}

func (m *Manager) peek(c *gin.Context) []Message {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}
	return msgs
}
