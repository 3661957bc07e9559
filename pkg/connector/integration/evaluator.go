package integration

import (
	"errors"

	"github.com/AtRiskMedia/queuegate-go/pkg/connector/httpctx"
)

// GetMatchedIntegrationConfig walks the integrations in publish order and
// returns the first one with a passing trigger, or nil when nothing matches.
// A trigger passes per its logical operator; the search stops at the first
// passing trigger of the first matching integration.
func GetMatchedIntegrationConfig(customerIntegration *CustomerIntegration, currentPageURL string, request httpctx.Provider) (*ConfigModel, error) {
	if request == nil {
		return nil, errors.New("request is nil")
	}

	for i := range customerIntegration.Integrations {
		integration := &customerIntegration.Integrations[i]
		for _, trigger := range integration.Triggers {
			if evaluateTrigger(trigger, currentPageURL, request) {
				return integration, nil
			}
		}
	}
	return nil, nil
}

func evaluateTrigger(trigger TriggerModel, currentPageURL string, request httpctx.Provider) bool {
	if trigger.LogicalOperator == LogicalOr {
		for _, part := range trigger.TriggerParts {
			if evaluateTriggerPart(part, currentPageURL, request) {
				return true
			}
		}
		return false
	}

	for _, part := range trigger.TriggerParts {
		if !evaluateTriggerPart(part, currentPageURL, request) {
			return false
		}
	}
	return true
}

func evaluateTriggerPart(part TriggerPart, currentPageURL string, request httpctx.Provider) bool {
	switch part.ValidatorType {
	case URLValidator:
		return evaluateURL(part, currentPageURL)
	case CookieValidator:
		return evaluateCookie(part, request)
	case UserAgentValidator:
		return evaluateComparison(part.Operator, part.IsNegative, part.IsIgnoreCase,
			request.UserAgent(), part.ValueToCompare, part.ValuesToCompare)
	case HTTPHeaderValidator:
		return evaluateComparison(part.Operator, part.IsNegative, part.IsIgnoreCase,
			request.Header(part.HTTPHeaderName), part.ValueToCompare, part.ValuesToCompare)
	default:
		return false
	}
}

func evaluateURL(part TriggerPart, url string) bool {
	return evaluateComparison(part.Operator, part.IsNegative, part.IsIgnoreCase,
		urlPart(part.URLPart, url), part.ValueToCompare, part.ValuesToCompare)
}

func evaluateCookie(part TriggerPart, request httpctx.Provider) bool {
	return evaluateComparison(part.Operator, part.IsNegative, part.IsIgnoreCase,
		request.GetCookie(part.CookieName), part.ValueToCompare, part.ValuesToCompare)
}
