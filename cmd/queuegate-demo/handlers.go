package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/httpctx"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/integration"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/queuetoken"
)

type demoApp struct {
	settings  *Settings
	connector *connector.Connector
	provider  *integration.Provider
	logger    *logging.ChanneledLogger
}

// KnownUserMiddleware gates every request through the connector. Qualified
// visitors pass; everyone else is redirected to the waiting room (or handed
// the redirect URL in a response header for AJAX probes).
func (app *demoApp) KnownUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := httpctx.NewGinProvider(c)
		queueitToken := c.Query(connector.QueueITTokenKey)
		requestURL := provider.RequestURL()
		pureURL := stripQueueITToken(requestURL)

		result, err := app.validate(provider, pureURL, queueitToken)
		if err != nil {
			app.logger.Validation().Error("Request validation failed", "url", pureURL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "request validation failed"})
			c.Abort()
			return
		}

		if result.DoRedirect() {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate, max-age=0")
			if result.IsAjaxResult {
				c.Header(result.AjaxQueueRedirectHeaderKey(), result.AjaxRedirectURL())
				c.AbortWithStatus(http.StatusOK)
				return
			}
			c.Redirect(http.StatusFound, result.RedirectURL)
			c.Abort()
			return
		}

		// Token accepted: send the browser to the clean URL so the token
		// never lingers in the address bar or gets bookmarked.
		if queueitToken != "" && result.ActionType == integration.QueueAction {
			c.Redirect(http.StatusFound, pureURL)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (app *demoApp) validate(provider httpctx.Provider, pureURL, queueitToken string) (connector.RequestValidationResult, error) {
	if app.provider != nil {
		if cfg := app.provider.GetCachedIntegrationConfig(); cfg != nil {
			return app.connector.ValidateRequestByIntegrationConfig(provider, pureURL, queueitToken,
				cfg, app.settings.CustomerID, app.settings.SecretKey)
		}
	}

	event := app.settings.Event
	queueConfig := connector.NewQueueEventConfig()
	queueConfig.EventID = event.EventID
	queueConfig.QueueDomain = event.QueueDomain
	queueConfig.CookieDomain = event.CookieDomain
	queueConfig.CookieValidityMinute = event.CookieValidityMinute
	queueConfig.ExtendCookieValidity = event.ExtendCookieValidity
	queueConfig.LayoutName = event.LayoutName
	queueConfig.Culture = event.Culture
	queueConfig.ActionName = "demo queue action"

	return app.connector.ResolveQueueRequestByLocalConfig(provider, pureURL, queueitToken,
		queueConfig, app.settings.CustomerID, app.settings.SecretKey)
}

// WaitingRoomHandler stands in for the remote queue server: it immediately
// issues a signed token with a fresh ULID queue id and redirects back to the
// target page.
func (app *demoApp) WaitingRoomHandler(c *gin.Context) {
	// Query already returns the component-decoded target URL.
	target := c.Query("t")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing t parameter"})
		return
	}

	token := queuetoken.Generator{
		EventID:      app.settings.Event.EventID,
		QueueID:      strings.ToLower(security.GenerateULID()),
		RedirectType: "queue",
		TimeStamp:    time.Now().UTC().Add(3 * time.Minute),
	}.Generate(app.settings.SecretKey)

	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	c.Redirect(http.StatusFound, target+separator+connector.QueueITTokenKey+"="+token)
}

// AdminLoginHandler validates the admin password and issues a JWT.
func (app *demoApp) AdminLoginHandler(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if app.settings.AdminPasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(app.settings.AdminPasswordHash), []byte(body.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := security.GenerateAdminToken("admin", app.settings.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// AdminAuthMiddleware requires a valid admin JWT in the Authorization header.
func (app *demoApp) AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(tokenString, app.settings.JWTSecret)
		if err != nil || security.GetRoleFromClaims(claims) != "admin" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// DebugTraceHandler parses the queueitdebug cookie into JSON for support
// tooling.
func (app *demoApp) DebugTraceHandler(c *gin.Context) {
	raw, err := c.Cookie(connector.QueueITDebugKey)
	if err != nil || raw == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no debug trace cookie present"})
		return
	}

	entries := make(map[string]string)
	for _, pair := range strings.Split(raw, "|") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		entries[key] = value
	}
	c.JSON(http.StatusOK, gin.H{"trace": entries})
}

// stripQueueITToken removes the queueittoken parameter so the token neither
// re-enters validation nor leaks into redirect targets.
func stripQueueITToken(requestURL string) string {
	u, err := url.Parse(requestURL)
	if err != nil {
		return requestURL
	}
	query := u.Query()
	query.Del(connector.QueueITTokenKey)
	u.RawQuery = query.Encode()
	return u.String()
}
