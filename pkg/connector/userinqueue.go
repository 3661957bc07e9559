package connector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/integration"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/queuetoken"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/session"
)

// userInQueueService ties the session store and token codec together into
// the allow / redirect-to-queue / redirect-to-error / redirect-to-cancel
// decision. One instance is built per request around the request's store.
type userInQueueService struct {
	store *session.Store
}

func (s *userInQueueService) validateQueueRequest(targetURL, queueitToken string, config *QueueEventConfig, customerID, secretKey string) RequestValidationResult {
	state := s.store.GetState(config.EventID, config.CookieValidityMinute, secretKey, true)
	if state.IsValid {
		if state.IsStateExtendable() && config.ExtendCookieValidity {
			s.store.Store(config.EventID, state.QueueID, nil, config.CookieDomain,
				state.RedirectType, secretKey, config.IsCookieHTTPOnly, config.IsCookieSecure)
		}
		return RequestValidationResult{
			ActionType:   integration.QueueAction,
			EventID:      config.EventID,
			QueueID:      state.QueueID,
			RedirectType: state.RedirectType,
			ActionName:   config.ActionName,
		}
	}

	params := queuetoken.Parse(queueitToken)

	var result RequestValidationResult
	tokenValid := false

	if params != nil {
		errorCode := validateToken(config, params, secretKey)
		tokenValid = errorCode == ""

		if tokenValid {
			result = s.validTokenResult(config, params, secretKey)
		} else {
			result = s.errorResult(customerID, targetURL, config, params, errorCode)
		}
	} else {
		result = s.queueResult(targetURL, config, customerID)
	}

	// A cookie that was found but did not validate is stale or tampered;
	// clean it up unless a fresh token just replaced it.
	if state.IsFound && !tokenValid {
		s.store.CancelQueueCookie(config.EventID, config.CookieDomain, config.IsCookieHTTPOnly, config.IsCookieSecure)
	}

	return result
}

func (s *userInQueueService) validTokenResult(config *QueueEventConfig, params *queuetoken.Params, secretKey string) RequestValidationResult {
	s.store.Store(config.EventID, params.QueueID, params.CookieValidityMinutes,
		config.CookieDomain, params.RedirectType, secretKey, config.IsCookieHTTPOnly, config.IsCookieSecure)

	return RequestValidationResult{
		ActionType:   integration.QueueAction,
		EventID:      config.EventID,
		QueueID:      params.QueueID,
		RedirectType: params.RedirectType,
		ActionName:   config.ActionName,
	}
}

func (s *userInQueueService) errorResult(customerID, targetURL string, config *QueueEventConfig, params *queuetoken.Params, errorCode string) RequestValidationResult {
	query := queryString(customerID, config.EventID, config.Version, config.ActionName, config.Culture, config.LayoutName) +
		"&queueittoken=" + params.Token +
		"&ts=" + strconv.FormatInt(security.UnixTimestamp(time.Now()), 10)
	if targetURL != "" {
		query += "&t=" + urlEncode(targetURL)
	}

	return RequestValidationResult{
		ActionType:  integration.QueueAction,
		RedirectURL: redirectURL(config.QueueDomain, "error/"+errorCode+"/", query),
		EventID:     config.EventID,
		ActionName:  config.ActionName,
	}
}

func (s *userInQueueService) queueResult(targetURL string, config *QueueEventConfig, customerID string) RequestValidationResult {
	query := queryString(customerID, config.EventID, config.Version, config.ActionName, config.Culture, config.LayoutName)
	if targetURL != "" {
		query += "&t=" + urlEncode(targetURL)
	}

	return RequestValidationResult{
		ActionType:  integration.QueueAction,
		RedirectURL: redirectURL(config.QueueDomain, "", query),
		EventID:     config.EventID,
		ActionName:  config.ActionName,
	}
}

func (s *userInQueueService) validateCancelRequest(targetURL string, config *CancelEventConfig, customerID, secretKey string) RequestValidationResult {
	// Session age is irrelevant when cancelling, so time validation is off
	// and the validity-minutes argument is a sentinel.
	state := s.store.GetState(config.EventID, -1, secretKey, false)

	if !state.IsValid {
		return RequestValidationResult{
			ActionType: integration.CancelAction,
			EventID:    config.EventID,
			ActionName: config.ActionName,
		}
	}

	s.store.CancelQueueCookie(config.EventID, config.CookieDomain, config.IsCookieHTTPOnly, config.IsCookieSecure)

	query := queryString(customerID, config.EventID, config.Version, config.ActionName, "", "")
	if targetURL != "" {
		query += "&r=" + urlEncode(targetURL)
	}

	uriPath := "cancel/" + customerID + "/" + config.EventID
	if state.QueueID != "" {
		uriPath += "/" + state.QueueID
	}
	uriPath += "/"

	return RequestValidationResult{
		ActionType:   integration.CancelAction,
		RedirectURL:  redirectURL(config.QueueDomain, uriPath, query),
		EventID:      config.EventID,
		QueueID:      state.QueueID,
		RedirectType: state.RedirectType,
		ActionName:   config.ActionName,
	}
}

func (s *userInQueueService) ignoreResult(actionName string) RequestValidationResult {
	return RequestValidationResult{ActionType: integration.IgnoreAction, ActionName: actionName}
}

func (s *userInQueueService) extendQueueCookie(eventID string, cookieValidityMinutes int, cookieDomain string, httpOnly, secure bool, secretKey string) {
	s.store.ReissueQueueCookie(eventID, cookieValidityMinutes, cookieDomain, secretKey, httpOnly, secure)
}

// validateToken checks the token against the event config and returns the
// error code of the first failing check, in the fixed order hash, eventid,
// timestamp. An empty return means the token is valid.
func validateToken(config *QueueEventConfig, params *queuetoken.Params, secretKey string) string {
	if security.GenerateSHA256Hash(secretKey, params.TokenWithoutHash) != params.HashCode {
		return "hash"
	}
	if params.EventID != config.EventID {
		return "eventid"
	}
	if params.TimeStamp.Before(time.Now().UTC()) {
		return "timestamp"
	}
	return ""
}

// queryString builds the fixed-order query shared by all redirect variants:
// c, e, ver, cver, man, then optional cid and l.
func queryString(customerID, eventID string, configVersion int, actionName, culture, layoutName string) string {
	parts := []string{
		"c=" + urlEncode(customerID),
		"e=" + urlEncode(eventID),
		"ver=" + SDKVersion,
		"cver=" + strconv.Itoa(configVersion),
		"man=" + urlEncode(actionName),
	}
	if culture != "" {
		parts = append(parts, "cid="+urlEncode(culture))
	}
	if layoutName != "" {
		parts = append(parts, "l="+urlEncode(layoutName))
	}
	return strings.Join(parts, "&")
}

func redirectURL(queueDomain, uriPath, query string) string {
	if !strings.HasSuffix(queueDomain, "/") {
		queueDomain += "/"
	}
	return fmt.Sprintf("https://%s%s?%s", queueDomain, uriPath, query)
}
