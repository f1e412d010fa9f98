package internal

import "strings"

// HeaderValue looks a header up case-insensitively. API Gateway forwards header names as sent by the client.
func HeaderValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
