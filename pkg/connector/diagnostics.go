package connector

import (
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/queuetoken"
)

// connectorDiagnostics is the outcome of verifying an inline diagnostics
// request. It runs before any config matching so a tampered debug token can
// never leak partial trace data.
type connectorDiagnostics struct {
	isEnabled        bool
	hasError         bool
	validationResult RequestValidationResult
}

// verifyDiagnostics inspects the token for an enabled debug session. Tokens
// without redirectType "debug" leave diagnostics silently disabled; a debug
// token with a setup, signature or freshness problem produces a diagnostics
// error redirect that short-circuits the whole validation.
func verifyDiagnostics(customerID, secretKey, queueitToken string) connectorDiagnostics {
	var diagnostics connectorDiagnostics

	params := queuetoken.Parse(queueitToken)
	if params == nil {
		return diagnostics
	}

	if !strings.EqualFold(params.RedirectType, "debug") {
		return diagnostics
	}

	if customerID == "" || secretKey == "" {
		diagnostics.hasError = true
		diagnostics.validationResult = RequestValidationResult{
			ActionType:  DiagnosticsRedirectAction,
			RedirectURL: "https://api2.queue-it.net/diagnostics/connector/error/?code=setup",
		}
		return diagnostics
	}

	if security.GenerateSHA256Hash(secretKey, params.TokenWithoutHash) != params.HashCode {
		diagnostics.setTokenError(customerID, "hash")
		return diagnostics
	}

	if params.TimeStamp.Before(time.Now().UTC()) {
		diagnostics.setTokenError(customerID, "timestamp")
		return diagnostics
	}

	diagnostics.isEnabled = true
	return diagnostics
}

func (d *connectorDiagnostics) setTokenError(customerID, errorCode string) {
	d.hasError = true
	d.validationResult = RequestValidationResult{
		ActionType: DiagnosticsRedirectAction,
		RedirectURL: fmt.Sprintf("https://%s.api2.queue-it.net/%s/diagnostics/connector/error/?code=%s",
			customerID, customerID, errorCode),
	}
}
