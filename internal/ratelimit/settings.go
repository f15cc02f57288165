package ratelimit

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mobiledorms/mobiledorms-api/internal/config"
	internalsettings "github.com/mobiledorms/mobiledorms-api/internal/settings"
)

// SettingsConfig captures the effective rate limit settings.
type SettingsConfig struct {
	MaxRequests   int
	Window        time.Duration
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// NewSettingsProvider builds a provider layering DB settings overrides
// over the config-file defaults.
func NewSettingsProvider(defaults config.RateLimitConfig) SettingsProvider {
	return func() SettingsConfig {
		return loadSettingsConfig(defaults)
	}
}

// loadSettingsConfig resolves the current settings snapshot.
func loadSettingsConfig(defaults config.RateLimitConfig) SettingsConfig {
	cfg := SettingsConfig{
		MaxRequests:   defaults.MaxRequests,
		Window:        defaults.Window,
		RedisEnabled:  defaults.RedisEnabled,
		RedisAddr:     defaults.RedisAddr,
		RedisPassword: defaults.RedisPassword,
		RedisDB:       defaults.RedisDB,
		RedisPrefix:   defaults.RedisPrefix,
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = config.DefaultRateLimitMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultRateLimitWindow
	}

	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitMaxRequestsKey); ok {
		if limit, okParse := parseNonNegativeInt(raw); okParse && limit > 0 {
			cfg.MaxRequests = limit
		}
	}
	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitWindowSecondsKey); ok {
		if seconds, okParse := parseNonNegativeInt(raw); okParse && seconds > 0 {
			cfg.Window = time.Duration(seconds) * time.Second
		}
	}
	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitRedisEnabledKey); ok {
		if enabled, okParse := parseBool(raw); okParse {
			cfg.RedisEnabled = enabled
		}
	}
	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitRedisAddrKey); ok {
		if addr, okParse := parseString(raw); okParse {
			cfg.RedisAddr = addr
		}
	}
	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitRedisPasswordKey); ok {
		if password, okParse := parseString(raw); okParse {
			cfg.RedisPassword = password
		}
	}
	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitRedisDBKey); ok {
		if dbIndex, okParse := parseNonNegativeInt(raw); okParse {
			cfg.RedisDB = dbIndex
		}
	}
	if raw, ok := internalsettings.DBConfigValue(internalsettings.RateLimitRedisPrefixKey); ok {
		if prefix, okParse := parseString(raw); okParse {
			cfg.RedisPrefix = prefix
		}
	}

	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	cfg.RedisPrefix = strings.TrimSpace(cfg.RedisPrefix)
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = internalsettings.DefaultRateLimitRedisPrefix
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}
	return cfg
}

func parseBool(raw json.RawMessage) (bool, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false, false
	}
	var parsedBool bool
	if errUnmarshal := json.Unmarshal(raw, &parsedBool); errUnmarshal == nil {
		return parsedBool, true
	}
	var parsedString string
	if errUnmarshal := json.Unmarshal(raw, &parsedString); errUnmarshal == nil {
		switch strings.ToLower(strings.TrimSpace(parsedString)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

func parseNonNegativeInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	var parsedFloat float64
	if errUnmarshal := json.Unmarshal(raw, &parsedFloat); errUnmarshal == nil {
		if parsedFloat < 0 || parsedFloat != math.Trunc(parsedFloat) {
			return 0, false
		}
		return int(parsedFloat), true
	}
	var parsedString string
	if errUnmarshal := json.Unmarshal(raw, &parsedString); errUnmarshal == nil {
		parsedInt, errParse := strconv.Atoi(strings.TrimSpace(parsedString))
		if errParse != nil || parsedInt < 0 {
			return 0, false
		}
		return parsedInt, true
	}
	return 0, false
}

func parseString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	var parsedString string
	if errUnmarshal := json.Unmarshal(raw, &parsedString); errUnmarshal == nil {
		return parsedString, true
	}
	return "", false
}
