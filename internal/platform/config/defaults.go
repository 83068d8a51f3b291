package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultRateLimitRPS   = 50.0
	defaultRateLimitBurst = 100
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML,
// and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"auth.jwt_secret": "",

		"storage.backend":                              "rest",
		"storage.rest.base_url":                        "http://localhost:54321",
		"storage.rest.service_key":                     "",
		"storage.rest.timeout":                         "30s",
		"storage.rest.retry.max_attempts":              defaultRetryMaxAttempts,
		"storage.rest.retry.initial_interval":          "100ms",
		"storage.rest.retry.max_interval":              "10s",
		"storage.rest.retry.multiplier":                defaultRetryMultiplier,
		"storage.rest.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"storage.rest.circuit_breaker.timeout":         "30s",
		"storage.rest.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"storage.rest.rate_limit.requests_per_second":  defaultRateLimitRPS,
		"storage.rest.rate_limit.burst":                defaultRateLimitBurst,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
