package config

import "strings"

// splitCSV converts a comma separated value into a list, with "*" meaning
// everything.
func splitCSV(value string) []string {
	if value == "*" {
		return []string{"*"}
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// CORSOrigins returns the allowed CORS origins.
func (s *Settings) CORSOrigins() []string {
	return splitCSV(s.CORSAllowOrigins)
}

// CORSMethods returns the allowed CORS methods.
func (s *Settings) CORSMethods() []string {
	return splitCSV(s.CORSAllowMethods)
}

// CORSHeaders returns the allowed CORS headers.
func (s *Settings) CORSHeaders() []string {
	return splitCSV(s.CORSAllowHeaders)
}

// CORSCredentials returns whether credentialed requests are allowed.
// Wildcard origins together with credentials is rejected by browsers, so the
// combination is downgraded to false.
func (s *Settings) CORSCredentials() bool {
	if s.CORSAllowCredentials && s.CORSAllowOrigins == "*" {
		return false
	}
	return s.CORSAllowCredentials
}
