// Package connector implements the KnownUser v3 request validation core: it
// decides, per request, whether a visitor is sent to the waiting room,
// allowed through, or cancelled out of a queue, based on the signed
// queueittoken URL parameter and the signed per-event session cookie.
//
// Every entry operation takes the request's httpctx.Provider explicitly;
// there is no process-wide request context.
package connector

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/httpctx"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/integration"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/session"
)

// SDKVersion identifies this connector generation in redirect URLs and debug
// traces.
const SDKVersion = "v3-go-1.0.0"

// Wire constants shared with the waiting room and the client-side scripts.
const (
	// QueueITTokenKey is the URL query parameter carrying the signed token.
	QueueITTokenKey = "queueittoken"
	// QueueITDebugKey is the diagnostics trace cookie name.
	QueueITDebugKey = "queueitdebug"
	// QueueITAjaxHeaderKey carries the page URL when the request is an
	// in-page AJAX probe rather than a full navigation.
	QueueITAjaxHeaderKey = "x-queueit-ajaxpageurl"
)

// ErrInvalidArgument marks caller contract violations: missing or empty
// required configuration. These are never downgraded to redirects and cause
// no state mutation.
var ErrInvalidArgument = errors.New("invalid argument")

// Connector validates requests against local event configs or the published
// customer integration configuration.
type Connector struct {
	logger *logging.ChanneledLogger
}

// New creates a connector. The logger may be nil.
func New(logger *logging.ChanneledLogger) *Connector {
	return &Connector{logger: logger}
}

// ValidateRequestByIntegrationConfig matches the request against the
// published integration configuration and dispatches the matched action.
// A nil match returns a neutral result: no redirect, no state mutation.
func (c *Connector) ValidateRequestByIntegrationConfig(provider httpctx.Provider, currentURLWithoutQueueITToken, queueitToken string,
	customerIntegration *integration.CustomerIntegration, customerID, secretKey string) (result RequestValidationResult, err error) {
	diagnostics := verifyDiagnostics(customerID, secretKey, queueitToken)
	if diagnostics.hasError {
		return diagnostics.validationResult, nil
	}

	trace := newDebugTrace()
	defer func() {
		if err != nil && diagnostics.isEnabled {
			trace.set("Exception", err.Error())
		}
		trace.flush(provider)
	}()

	if diagnostics.isEnabled {
		trace.set("SdkVersion", SDKVersion)
		trace.set("Runtime", goRuntime())
		if customerIntegration != nil {
			trace.set("ConfigVersion", strconv.Itoa(customerIntegration.Version))
		} else {
			trace.set("ConfigVersion", "NULL")
		}
		trace.set("PureUrl", currentURLWithoutQueueITToken)
		trace.set("QueueitToken", queueitToken)
		trace.set("OriginalUrl", provider.RequestURL())
		trace.addRequestDetails(provider)
	}

	if currentURLWithoutQueueITToken == "" {
		return result, fmt.Errorf("%w: currentUrlWithoutQueueITToken can not be empty", ErrInvalidArgument)
	}
	if customerIntegration == nil {
		return result, fmt.Errorf("%w: customerIntegration can not be nil", ErrInvalidArgument)
	}

	matchedConfig, err := integration.GetMatchedIntegrationConfig(customerIntegration, currentURLWithoutQueueITToken, provider)
	if err != nil {
		return result, err
	}

	if diagnostics.isEnabled {
		if matchedConfig != nil {
			trace.set("MatchedConfig", matchedConfig.Name)
		} else {
			trace.set("MatchedConfig", "NULL")
		}
	}
	if matchedConfig == nil {
		return RequestValidationResult{}, nil
	}

	if c.logger != nil {
		c.logger.Validation().Debug("Matched integration config",
			"name", matchedConfig.Name, "actionType", string(matchedConfig.ActionType))
	}

	switch matchedConfig.ActionType {
	case integration.QueueAction, "": // empty for backward compatibility
		return c.handleQueueAction(provider, currentURLWithoutQueueITToken, queueitToken,
			customerIntegration, customerID, secretKey, trace, matchedConfig, diagnostics.isEnabled)
	case integration.CancelAction:
		return c.handleCancelAction(provider, currentURLWithoutQueueITToken, queueitToken,
			customerIntegration, customerID, secretKey, trace, matchedConfig, diagnostics.isEnabled)
	default:
		service := &userInQueueService{store: session.NewStore(provider, c.logger)}
		return service.ignoreResult(matchedConfig.Name).asAjax(isQueueAjaxCall(provider)), nil
	}
}

// ResolveQueueRequestByLocalConfig validates the request against a
// caller-supplied queue event config.
func (c *Connector) ResolveQueueRequestByLocalConfig(provider httpctx.Provider, targetURL, queueitToken string,
	queueConfig *QueueEventConfig, customerID, secretKey string) (result RequestValidationResult, err error) {
	diagnostics := verifyDiagnostics(customerID, secretKey, queueitToken)
	if diagnostics.hasError {
		return diagnostics.validationResult, nil
	}

	trace := newDebugTrace()
	defer func() {
		if err != nil && diagnostics.isEnabled {
			trace.set("Exception", err.Error())
		}
		trace.flush(provider)
	}()

	targetURL = generateTargetURL(provider, targetURL)
	return c.resolveQueueRequest(provider, targetURL, queueitToken, queueConfig, customerID, secretKey, trace, diagnostics.isEnabled)
}

func (c *Connector) resolveQueueRequest(provider httpctx.Provider, targetURL, queueitToken string,
	queueConfig *QueueEventConfig, customerID, secretKey string, trace *debugTrace, isDebug bool) (RequestValidationResult, error) {
	if isDebug {
		trace.set("SdkVersion", SDKVersion)
		trace.set("Runtime", goRuntime())
		trace.set("TargetUrl", targetURL)
		trace.set("QueueitToken", queueitToken)
		if queueConfig != nil {
			trace.set("QueueConfig", queueConfig.String())
		} else {
			trace.set("QueueConfig", "NULL")
		}
		trace.set("OriginalUrl", provider.RequestURL())
		trace.addRequestDetails(provider)
	}

	var zero RequestValidationResult
	if customerID == "" {
		return zero, fmt.Errorf("%w: customerId can not be empty", ErrInvalidArgument)
	}
	if secretKey == "" {
		return zero, fmt.Errorf("%w: secretKey can not be empty", ErrInvalidArgument)
	}
	if queueConfig == nil {
		return zero, fmt.Errorf("%w: queueConfig can not be nil", ErrInvalidArgument)
	}
	if queueConfig.EventID == "" {
		return zero, fmt.Errorf("%w: EventId from queueConfig can not be empty", ErrInvalidArgument)
	}
	if queueConfig.QueueDomain == "" {
		return zero, fmt.Errorf("%w: QueueDomain from queueConfig can not be empty", ErrInvalidArgument)
	}
	if queueConfig.CookieValidityMinute <= 0 {
		return zero, fmt.Errorf("%w: CookieValidityMinute from queueConfig should be greater than 0", ErrInvalidArgument)
	}

	service := &userInQueueService{store: session.NewStore(provider, c.logger)}
	result := service.validateQueueRequest(targetURL, queueitToken, queueConfig, customerID, secretKey)
	if c.logger != nil && result.DoRedirect() {
		c.logger.Validation().Debug("Queue redirect issued", "eventId", queueConfig.EventID, "action", queueConfig.ActionName)
	}
	return result.asAjax(isQueueAjaxCall(provider)), nil
}

// CancelRequestByLocalConfig cancels the visitor's session against a
// caller-supplied cancel config. Cancelling an absent or invalid session is
// a no-op result, never an error.
func (c *Connector) CancelRequestByLocalConfig(provider httpctx.Provider, targetURL, queueitToken string,
	cancelConfig *CancelEventConfig, customerID, secretKey string) (result RequestValidationResult, err error) {
	diagnostics := verifyDiagnostics(customerID, secretKey, queueitToken)
	if diagnostics.hasError {
		return diagnostics.validationResult, nil
	}

	trace := newDebugTrace()
	defer func() {
		if err != nil && diagnostics.isEnabled {
			trace.set("Exception", err.Error())
		}
		trace.flush(provider)
	}()

	return c.cancelRequest(provider, targetURL, queueitToken, cancelConfig, customerID, secretKey, trace, diagnostics.isEnabled)
}

func (c *Connector) cancelRequest(provider httpctx.Provider, targetURL, queueitToken string,
	cancelConfig *CancelEventConfig, customerID, secretKey string, trace *debugTrace, isDebug bool) (RequestValidationResult, error) {
	targetURL = generateTargetURL(provider, targetURL)

	if isDebug {
		trace.set("SdkVersion", SDKVersion)
		trace.set("Runtime", goRuntime())
		trace.set("TargetUrl", targetURL)
		trace.set("QueueitToken", queueitToken)
		if cancelConfig != nil {
			trace.set("CancelConfig", cancelConfig.String())
		} else {
			trace.set("CancelConfig", "NULL")
		}
		trace.set("OriginalUrl", provider.RequestURL())
		trace.addRequestDetails(provider)
	}

	var zero RequestValidationResult
	if targetURL == "" {
		return zero, fmt.Errorf("%w: targetUrl can not be empty", ErrInvalidArgument)
	}
	if customerID == "" {
		return zero, fmt.Errorf("%w: customerId can not be empty", ErrInvalidArgument)
	}
	if secretKey == "" {
		return zero, fmt.Errorf("%w: secretKey can not be empty", ErrInvalidArgument)
	}
	if cancelConfig == nil {
		return zero, fmt.Errorf("%w: cancelConfig can not be nil", ErrInvalidArgument)
	}
	if cancelConfig.EventID == "" {
		return zero, fmt.Errorf("%w: EventId from cancelConfig can not be empty", ErrInvalidArgument)
	}
	if cancelConfig.QueueDomain == "" {
		return zero, fmt.Errorf("%w: QueueDomain from cancelConfig can not be empty", ErrInvalidArgument)
	}

	service := &userInQueueService{store: session.NewStore(provider, c.logger)}
	result := service.validateCancelRequest(targetURL, cancelConfig, customerID, secretKey)
	return result.asAjax(isQueueAjaxCall(provider)), nil
}

// ExtendQueueCookie renews the session window for an event. It is a pure
// side effect: no result object, and a missing or invalid cookie is left
// untouched.
func (c *Connector) ExtendQueueCookie(provider httpctx.Provider, eventID string, cookieValidityMinutes int,
	cookieDomain string, isCookieHTTPOnly, isCookieSecure bool, secretKey string) error {
	if eventID == "" {
		return fmt.Errorf("%w: eventId can not be empty", ErrInvalidArgument)
	}
	if cookieValidityMinutes <= 0 {
		return fmt.Errorf("%w: cookieValidityMinutes should be greater than 0", ErrInvalidArgument)
	}
	if secretKey == "" {
		return fmt.Errorf("%w: secretKey can not be empty", ErrInvalidArgument)
	}

	service := &userInQueueService{store: session.NewStore(provider, c.logger)}
	service.extendQueueCookie(eventID, cookieValidityMinutes, cookieDomain, isCookieHTTPOnly, isCookieSecure, secretKey)
	return nil
}

func (c *Connector) handleQueueAction(provider httpctx.Provider, currentURLWithoutQueueITToken, queueitToken string,
	customerIntegration *integration.CustomerIntegration, customerID, secretKey string,
	trace *debugTrace, matchedConfig *integration.ConfigModel, isDebug bool) (RequestValidationResult, error) {
	var targetURL string
	switch matchedConfig.RedirectLogic {
	case integration.RedirectLogicForcedTargetURL, integration.RedirectLogicForcedTargetURLLegacy:
		targetURL = matchedConfig.ForcedTargetURL
	case integration.RedirectLogicEventTargetURL:
		targetURL = ""
	default:
		targetURL = generateTargetURL(provider, currentURLWithoutQueueITToken)
	}

	queueConfig := &QueueEventConfig{
		QueueDomain:          matchedConfig.QueueDomain,
		Culture:              matchedConfig.Culture,
		EventID:              matchedConfig.EventID,
		ExtendCookieValidity: boolValue(matchedConfig.ExtendCookieValidity),
		LayoutName:           matchedConfig.LayoutName,
		CookieValidityMinute: intValue(matchedConfig.CookieValidityMinute),
		CookieDomain:         matchedConfig.CookieDomain,
		IsCookieHTTPOnly:     boolValue(matchedConfig.IsCookieHTTPOnly),
		IsCookieSecure:       boolValue(matchedConfig.IsCookieSecure),
		Version:              customerIntegration.Version,
		ActionName:           matchedConfig.Name,
	}

	return c.resolveQueueRequest(provider, targetURL, queueitToken, queueConfig, customerID, secretKey, trace, isDebug)
}

func (c *Connector) handleCancelAction(provider httpctx.Provider, currentURLWithoutQueueITToken, queueitToken string,
	customerIntegration *integration.CustomerIntegration, customerID, secretKey string,
	trace *debugTrace, matchedConfig *integration.ConfigModel, isDebug bool) (RequestValidationResult, error) {
	cancelConfig := &CancelEventConfig{
		QueueDomain:      matchedConfig.QueueDomain,
		EventID:          matchedConfig.EventID,
		Version:          customerIntegration.Version,
		CookieDomain:     matchedConfig.CookieDomain,
		IsCookieHTTPOnly: boolValue(matchedConfig.IsCookieHTTPOnly),
		IsCookieSecure:   boolValue(matchedConfig.IsCookieSecure),
		ActionName:       matchedConfig.Name,
	}

	return c.cancelRequest(provider, currentURLWithoutQueueITToken, queueitToken, cancelConfig, customerID, secretKey, trace, isDebug)
}

// generateTargetURL substitutes the AJAX-provided page URL for the target
// when the request is an in-page probe.
func generateTargetURL(provider httpctx.Provider, originalTargetURL string) string {
	if !isQueueAjaxCall(provider) {
		return originalTargetURL
	}
	decoded, err := url.QueryUnescape(provider.Header(QueueITAjaxHeaderKey))
	if err != nil {
		return originalTargetURL
	}
	return decoded
}

func isQueueAjaxCall(provider httpctx.Provider) bool {
	return provider.Header(QueueITAjaxHeaderKey) != ""
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
