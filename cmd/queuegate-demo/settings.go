package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EventSettings is the local queue event configuration for the demo site.
type EventSettings struct {
	EventID              string `yaml:"eventId"`
	QueueDomain          string `yaml:"queueDomain"`
	CookieDomain         string `yaml:"cookieDomain"`
	CookieValidityMinute int    `yaml:"cookieValidityMinute"`
	ExtendCookieValidity bool   `yaml:"extendCookieValidity"`
	LayoutName           string `yaml:"layoutName"`
	Culture              string `yaml:"culture"`
}

// Settings is the demo application configuration, loaded from a YAML file
// with environment overrides for the secrets.
type Settings struct {
	ListenAddr string `yaml:"listenAddr"`
	CustomerID string `yaml:"customerId"`
	SecretKey  string `yaml:"secretKey"`
	// APIKey enables the integration-config path; when empty the demo runs
	// against the local event config below.
	APIKey            string        `yaml:"apiKey"`
	AdminPasswordHash string        `yaml:"adminPasswordHash"`
	JWTSecret         string        `yaml:"jwtSecret"`
	Event             EventSettings `yaml:"event"`
}

// LoadSettings reads the settings file and applies env overrides.
func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{
		ListenAddr: ":8080",
		Event: EventSettings{
			EventID:              "demo",
			CookieValidityMinute: 15,
			ExtendCookieValidity: true,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if v := os.Getenv("QUEUEGATE_CUSTOMER_ID"); v != "" {
		settings.CustomerID = v
	}
	if v := os.Getenv("QUEUEGATE_SECRET_KEY"); v != "" {
		settings.SecretKey = v
	}
	if v := os.Getenv("QUEUEGATE_API_KEY"); v != "" {
		settings.APIKey = v
	}
	if v := os.Getenv("QUEUEGATE_JWT_SECRET"); v != "" {
		settings.JWTSecret = v
	}

	if settings.CustomerID == "" || settings.SecretKey == "" {
		return nil, fmt.Errorf("customerId and secretKey are required")
	}
	if settings.Event.QueueDomain == "" {
		settings.Event.QueueDomain = "localhost" + settings.ListenAddr + "/waitingroom"
	}

	return settings, nil
}
