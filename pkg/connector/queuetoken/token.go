// Package queuetoken parses and generates the compact signed token format the
// waiting room exchanges with the connector via the queueittoken URL
// parameter. The wire format is key_value groups joined by "~", with the
// HMAC-SHA256 hex signature carried in the trailing "h" group:
//
//	ts_1693000000~ce_true~e_event1~q_f8757c2d...~rt_queue~h_<hexhash>
package queuetoken

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/security"
)

// Token wire keys.
const (
	TimeStampKey             = "ts"
	ExtendableCookieKey      = "ce"
	CookieValidityMinutesKey = "cv"
	HashKey                  = "h"
	EventIDKey               = "e"
	QueueIDKey               = "q"
	RedirectTypeKey          = "rt"

	KeyValueSeparator      = "_"
	KeyValueGroupSeparator = "~"
)

// Params holds the parsed fields of a queueittoken. The zero TimeStamp is the
// epoch, which all downstream checks treat as already expired.
type Params struct {
	TimeStamp             time.Time
	EventID               string
	HashCode              string
	ExtendableCookie      bool
	CookieValidityMinutes *int
	QueueID               string
	RedirectType          string
	Token                 string
	TokenWithoutHash      string
}

// Parse extracts the key/value groups of a raw queueittoken. It returns nil
// only for empty input. Parsing is strict: a group without exactly one key
// and one value is skipped, unknown keys are ignored, and unparseable field
// values fall back to their zero meaning rather than failing the whole token.
func Parse(queueitToken string) *Params {
	if queueitToken == "" {
		return nil
	}

	result := &Params{
		TimeStamp: time.Unix(0, 0).UTC(),
		Token:     queueitToken,
	}

	for _, group := range strings.Split(queueitToken, KeyValueGroupSeparator) {
		keyValue := strings.Split(group, KeyValueSeparator)
		if len(keyValue) != 2 {
			continue
		}

		switch keyValue[0] {
		case TimeStampKey:
			result.TimeStamp = security.TimeFromUnixTimestamp(keyValue[1])
		case CookieValidityMinutesKey:
			if minutes, err := strconv.Atoi(keyValue[1]); err == nil {
				result.CookieValidityMinutes = &minutes
			}
		case HashKey:
			result.HashCode = keyValue[1]
		case EventIDKey:
			result.EventID = keyValue[1]
		case ExtendableCookieKey:
			extendable, err := strconv.ParseBool(keyValue[1])
			if err != nil {
				extendable = false
			}
			result.ExtendableCookie = extendable
		case QueueIDKey:
			result.QueueID = keyValue[1]
		case RedirectTypeKey:
			result.RedirectType = keyValue[1]
		}
	}

	hashGroup := KeyValueGroupSeparator + HashKey + KeyValueSeparator + result.HashCode
	result.TokenWithoutHash = strings.Replace(result.Token, hashGroup, "", 1)
	return result
}

// Generator builds signed tokens the way the waiting room server does. It is
// used by the demo mock queue endpoint and by tests; production tokens are
// issued by the remote queue system.
type Generator struct {
	EventID               string
	QueueID               string
	RedirectType          string
	ExtendableCookie      bool
	CookieValidityMinutes *int
	TimeStamp             time.Time
}

// Generate serializes the token fields in wire order and appends the hex
// HMAC-SHA256 signature computed with secretKey.
func (g Generator) Generate(secretKey string) string {
	groups := []string{
		TimeStampKey + KeyValueSeparator + strconv.FormatInt(security.UnixTimestamp(g.TimeStamp), 10),
	}
	if g.CookieValidityMinutes != nil {
		groups = append(groups, CookieValidityMinutesKey+KeyValueSeparator+strconv.Itoa(*g.CookieValidityMinutes))
	}
	groups = append(groups, fmt.Sprintf("%s%s%t", ExtendableCookieKey, KeyValueSeparator, g.ExtendableCookie))
	if g.EventID != "" {
		groups = append(groups, EventIDKey+KeyValueSeparator+g.EventID)
	}
	if g.QueueID != "" {
		groups = append(groups, QueueIDKey+KeyValueSeparator+g.QueueID)
	}
	if g.RedirectType != "" {
		groups = append(groups, RedirectTypeKey+KeyValueSeparator+g.RedirectType)
	}

	tokenWithoutHash := strings.Join(groups, KeyValueGroupSeparator)
	hash := security.GenerateSHA256Hash(secretKey, tokenWithoutHash)
	return tokenWithoutHash + KeyValueGroupSeparator + HashKey + KeyValueSeparator + hash
}
