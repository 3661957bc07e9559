// Package session implements the cookie-backed per-event session state store.
// One cookie is issued per queue event, so a browser can hold state for
// several concurrent waiting rooms. The cookie payload is signed; any parse
// or integrity failure is reported as "not valid" rather than an error, so a
// tampered cookie can never take a request down.
package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/httpctx"
)

// CookieKeyPrefix is the stable namespaced prefix of every session cookie;
// the full cookie name is CookieKeyPrefix + "_" + eventId. It must match the
// value used by the other KnownUser connector generations.
const CookieKeyPrefix = "QueueITAccepted-SDFrts345E-V3"

// Cookie payload field keys. Field values must not contain "&" or "=" — the
// payload codec splits on them and the hash is computed over the raw
// concatenation, so escaping would break wire compatibility.
const (
	hashKey                       = "Hash"
	issueTimeKey                  = "IssueTime"
	queueIDKey                    = "QueueId"
	eventIDKey                    = "EventId"
	redirectTypeKey               = "RedirectType"
	fixedCookieValidityMinutesKey = "FixedValidityMins"
)

// cookieLifetime is the cookie-layer expiry, independent of the logical
// validity window signed into the payload.
const cookieLifetime = 24 * time.Hour

// StateInfo is the result of a session lookup.
type StateInfo struct {
	IsFound                    bool
	IsValid                    bool
	QueueID                    string
	FixedCookieValidityMinutes *int
	RedirectType               string
}

// IsStateExtendable reports whether the session window may be renewed under
// the caller-supplied default validity, i.e. the state is valid and no fixed
// validity override was stored.
func (s StateInfo) IsStateExtendable() bool {
	return s.IsValid && s.FixedCookieValidityMinutes == nil
}

// Store reads and writes session cookies through an explicit HTTP provider.
type Store struct {
	provider httpctx.Provider
	logger   *logging.ChanneledLogger
}

// NewStore creates a session store bound to the given request's provider.
// The logger may be nil.
func NewStore(provider httpctx.Provider, logger *logging.ChanneledLogger) *Store {
	return &Store{provider: provider, logger: logger}
}

// CookieKey returns the session cookie name for an event.
func CookieKey(eventID string) string {
	return CookieKeyPrefix + "_" + eventID
}

// GetState looks up the session cookie for eventID and verifies it. A missing
// cookie yields IsFound=false; a present but tampered, mismatched or (when
// validateTime is set) expired cookie yields IsFound=true, IsValid=false.
func (s *Store) GetState(eventID string, cookieValidityMinutes int, secretKey string, validateTime bool) StateInfo {
	cookie := s.provider.GetCookie(CookieKey(eventID))
	if cookie == "" {
		return StateInfo{}
	}

	values := parseCookieValue(cookie)
	if !isCookieValid(secretKey, values, eventID, cookieValidityMinutes, validateTime) {
		if s.logger != nil {
			s.logger.Session().Debug("Session cookie rejected", "eventId", eventID)
		}
		return StateInfo{IsFound: true}
	}

	var fixedValidity *int
	if raw := values[fixedCookieValidityMinutesKey]; raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			// isCookieValid recomputed the hash over this raw value, so a
			// non-numeric override means a forged payload.
			return StateInfo{IsFound: true}
		}
		fixedValidity = &minutes
	}

	return StateInfo{
		IsFound:                    true,
		IsValid:                    true,
		QueueID:                    values[queueIDKey],
		FixedCookieValidityMinutes: fixedValidity,
		RedirectType:               values[redirectTypeKey],
	}
}

// Store issues a fresh session cookie for the event.
func (s *Store) Store(eventID, queueID string, fixedCookieValidityMinutes *int, cookieDomain, redirectType, secretKey string, httpOnly, secure bool) {
	fixedValidity := ""
	if fixedCookieValidityMinutes != nil {
		fixedValidity = strconv.Itoa(*fixedCookieValidityMinutes)
	}
	s.createCookie(eventID, queueID, fixedValidity, redirectType, cookieDomain, secretKey, httpOnly, secure)
}

// CancelQueueCookie deletes the session cookie by overwriting it with an
// empty value expiring one day in the past.
func (s *Store) CancelQueueCookie(eventID, cookieDomain string, httpOnly, secure bool) {
	s.provider.SetCookie(CookieKey(eventID), "", cookieDomain, time.Now().UTC().Add(-24*time.Hour), httpOnly, secure)
	if s.logger != nil {
		s.logger.Session().Debug("Session cookie cancelled", "eventId", eventID)
	}
}

// ReissueQueueCookie extends a valid session by re-storing the same identity
// with a fresh issue time. Missing or invalid cookies are left untouched.
func (s *Store) ReissueQueueCookie(eventID string, cookieValidityMinutes int, cookieDomain, secretKey string, httpOnly, secure bool) {
	cookie := s.provider.GetCookie(CookieKey(eventID))
	if cookie == "" {
		return
	}

	values := parseCookieValue(cookie)
	if !isCookieValid(secretKey, values, eventID, cookieValidityMinutes, true) {
		return
	}

	s.createCookie(eventID, values[queueIDKey], values[fixedCookieValidityMinutesKey],
		values[redirectTypeKey], cookieDomain, secretKey, httpOnly, secure)
}

func (s *Store) createCookie(eventID, queueID, fixedCookieValidityMinutes, redirectType, cookieDomain, secretKey string, httpOnly, secure bool) {
	issueTime := strconv.FormatInt(security.UnixTimestamp(time.Now()), 10)

	pairs := []string{
		eventIDKey + "=" + eventID,
		queueIDKey + "=" + queueID,
	}
	if fixedCookieValidityMinutes != "" {
		pairs = append(pairs, fixedCookieValidityMinutesKey+"="+fixedCookieValidityMinutes)
	}
	pairs = append(pairs,
		redirectTypeKey+"="+strings.ToLower(redirectType),
		issueTimeKey+"="+issueTime,
		hashKey+"="+generateHash(eventID, queueID, fixedCookieValidityMinutes, redirectType, issueTime, secretKey),
	)

	s.provider.SetCookie(CookieKey(eventID), strings.Join(pairs, "&"),
		cookieDomain, time.Now().UTC().Add(cookieLifetime), httpOnly, secure)
}

// generateHash signs the lower-cased concatenation of the identity fields.
func generateHash(eventID, queueID, fixedCookieValidityMinutes, redirectType, issueTime, secretKey string) string {
	payload := strings.ToLower(eventID) + queueID + fixedCookieValidityMinutes + strings.ToLower(redirectType) + issueTime
	return security.GenerateSHA256Hash(secretKey, payload)
}

func isCookieValid(secretKey string, values map[string]string, eventID string, cookieValidityMinutes int, validateTime bool) bool {
	storedHash := values[hashKey]
	issueTime := values[issueTimeKey]
	queueID := values[queueIDKey]
	eventIDFromCookie := values[eventIDKey]
	redirectType := values[redirectTypeKey]
	fixedValidity := values[fixedCookieValidityMinutesKey]

	expectedHash := generateHash(eventIDFromCookie, queueID, fixedValidity, redirectType, issueTime, secretKey)
	if expectedHash != storedHash {
		return false
	}

	if !strings.EqualFold(eventID, eventIDFromCookie) {
		return false
	}

	if validateTime {
		validity := cookieValidityMinutes
		if fixedValidity != "" {
			minutes, err := strconv.Atoi(fixedValidity)
			if err != nil {
				return false
			}
			validity = minutes
		}
		expiration := security.TimeFromUnixTimestamp(issueTime).Add(time.Duration(validity) * time.Minute)
		if expiration.Before(time.Now().UTC()) {
			return false
		}
	}
	return true
}

// parseCookieValue splits an "&"-joined payload into key/value fields. The
// first "=" separates key from value; malformed items are dropped.
func parseCookieValue(cookieValue string) map[string]string {
	result := make(map[string]string)
	for _, item := range strings.Split(cookieValue, "&") {
		key, value, found := strings.Cut(item, "=")
		if !found {
			continue
		}
		result[key] = value
	}
	return result
}
