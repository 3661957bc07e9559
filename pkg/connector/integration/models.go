// Package integration holds the customer integration configuration model,
// the trigger evaluator that picks which waiting-room action applies to a
// request, and the polling provider that keeps a cached copy of the remote
// configuration.
package integration

// ValidatorType selects which request attribute a trigger part inspects.
type ValidatorType string

const (
	URLValidator        ValidatorType = "UrlValidator"
	CookieValidator     ValidatorType = "CookieValidator"
	UserAgentValidator  ValidatorType = "UserAgentValidator"
	HTTPHeaderValidator ValidatorType = "HttpHeaderValidator"
)

// URLPartType selects which slice of the URL a UrlValidator compares.
type URLPartType string

const (
	HostName URLPartType = "HostName"
	PagePath URLPartType = "PagePath"
	PageURL  URLPartType = "PageUrl"
)

// ComparisonOperator is a trigger part's string predicate.
type ComparisonOperator string

const (
	ComparisonEquals      ComparisonOperator = "Equals"
	ComparisonContains    ComparisonOperator = "Contains"
	ComparisonStartsWith  ComparisonOperator = "StartsWith"
	ComparisonEndsWith    ComparisonOperator = "EndsWith"
	ComparisonMatchesWith ComparisonOperator = "MatchesWith"
	ComparisonEqualsAny   ComparisonOperator = "EqualsAny"
	ComparisonContainsAny ComparisonOperator = "ContainsAny"
)

// LogicalOperator combines the parts of a trigger.
type LogicalOperator string

const (
	LogicalOr  LogicalOperator = "Or"
	LogicalAnd LogicalOperator = "And"
)

// ActionType is the waiting-room action a matched integration dispatches.
type ActionType string

const (
	// QueueAction sends unqualified visitors to the waiting room. An empty
	// ActionType in older configs means QueueAction.
	QueueAction  ActionType = "Queue"
	CancelAction ActionType = "Cancel"
	IgnoreAction ActionType = "Ignore"
)

// RedirectLogic values controlling the target URL of a queue redirect.
const (
	RedirectLogicForcedTargetURL = "ForcedTargetUrl"
	// RedirectLogicForcedTargetURLLegacy is the misspelled variant some
	// published configs still carry.
	RedirectLogicForcedTargetURLLegacy = "ForecedTargetUrl"
	RedirectLogicEventTargetURL        = "EventTargetUrl"
)

// TriggerPart is one predicate inside a trigger.
type TriggerPart struct {
	ValidatorType   ValidatorType      `json:"ValidatorType"`
	Operator        ComparisonOperator `json:"Operator"`
	ValueToCompare  string             `json:"ValueToCompare"`
	ValuesToCompare []string           `json:"ValuesToCompare"`
	IsNegative      bool               `json:"IsNegative"`
	IsIgnoreCase    bool               `json:"IsIgnoreCase"`
	// UrlValidator only
	URLPart URLPartType `json:"UrlPart"`
	// CookieValidator only
	CookieName string `json:"CookieName"`
	// HttpHeaderValidator only
	HTTPHeaderName string `json:"HttpHeaderName"`
}

// TriggerModel is an ordered list of parts joined by a logical operator.
type TriggerModel struct {
	TriggerParts    []TriggerPart   `json:"TriggerParts"`
	LogicalOperator LogicalOperator `json:"LogicalOperator"`
}

// ConfigModel is one named integration: the event parameters plus the
// triggers that decide whether it applies to a request.
type ConfigModel struct {
	Name                 string         `json:"Name"`
	EventID              string         `json:"EventId"`
	CookieDomain         string         `json:"CookieDomain"`
	IsCookieHTTPOnly     *bool          `json:"IsCookieHttpOnly"`
	IsCookieSecure       *bool          `json:"IsCookieSecure"`
	LayoutName           string         `json:"LayoutName"`
	Culture              string         `json:"Culture"`
	ExtendCookieValidity *bool          `json:"ExtendCookieValidity"`
	CookieValidityMinute *int           `json:"CookieValidityMinute"`
	QueueDomain          string         `json:"QueueDomain"`
	RedirectLogic        string         `json:"RedirectLogic"`
	ForcedTargetURL      string         `json:"ForcedTargetUrl"`
	ActionType           ActionType     `json:"ActionType"`
	Triggers             []TriggerModel `json:"Triggers"`
}

// CustomerIntegration is the full published configuration: integrations in
// publish order (order decides match priority) plus the config version.
type CustomerIntegration struct {
	Integrations []ConfigModel `json:"Integrations"`
	Version      int           `json:"Version"`
}

// NewCustomerIntegration returns an empty configuration with the sentinel
// version -1, matching what the connector reports before the first download.
func NewCustomerIntegration() *CustomerIntegration {
	return &CustomerIntegration{Version: -1}
}
