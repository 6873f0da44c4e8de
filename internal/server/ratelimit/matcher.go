package ratelimit

import (
	"strings"
)

// unlimited is returned for endpoints that are never limited
var unlimited = EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when no configuration matches. Paths ending in "/" match by prefix,
// e.g. "/analyses/" matches "/analyses/memo/12".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		cfg := unlimited
		return &cfg
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			return cfg
		}
	}

	return nil
}
