package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Configs whose Path ends with "/" match by prefix (e.g., "/api/jobs/" matches "/api/jobs/{id}/apply").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health check is unlimited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	// Longest matching prefix wins
	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) && (best == nil || len(config.Path) > len(best.Path)) {
			best = config
		}
	}
	return best
}

// key is the bucket identity for a request matched by c. Default configs
// carry no Path and fall back to the request path.
func (c *EndpointConfig) key(requestPath string) string {
	if c.Path == "" {
		return requestPath
	}
	return c.Path
}
