// Package config provides centralized default values for QueueGate
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

// Integration config provider tuning. The downstream contract (bounded retry,
// per-attempt timeout, stale-while-revalidate) does not change with these.
var (
	// ConfigRefreshInterval is how often the cached integration config is refreshed.
	ConfigRefreshInterval = func() time.Duration {
		loadEnvFile()
		return time.Duration(getEnvInt("QUEUEGATE_CONFIG_REFRESH_INTERVAL_S", 300)) * time.Second
	}()

	// ConfigDownloadTimeout is the hard per-attempt network timeout for config downloads.
	ConfigDownloadTimeout = func() time.Duration {
		loadEnvFile()
		return time.Duration(getEnvInt("QUEUEGATE_CONFIG_DOWNLOAD_TIMEOUT_MS", 4000)) * time.Millisecond
	}()

	// ConfigRefreshMaxAttempts is the fixed attempt count per refresh cycle.
	ConfigRefreshMaxAttempts = func() int {
		loadEnvFile()
		return getEnvInt("QUEUEGATE_CONFIG_REFRESH_MAX_ATTEMPTS", 5)
	}()

	// ConfigRetryBackoff is the fixed sleep between failed download attempts.
	ConfigRetryBackoff = func() time.Duration {
		loadEnvFile()
		return time.Duration(getEnvInt("QUEUEGATE_CONFIG_RETRY_BACKOFF_S", 5)) * time.Second
	}()
)
