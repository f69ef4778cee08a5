package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// SessionCookies holds the credentialed session cookies acquired by the
// external login flow. The collector never logs in itself; it reuses the
// cookies saved for it.
type SessionCookies map[string]string

type sessionFile struct {
	Cookies map[string]string `json:"cookies"`
}

// LoadSessionCookies reads a cookie file written by the login flow.
// The file format is {"cookies": {"name": "value", ...}}.
func LoadSessionCookies(path string) (SessionCookies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if len(f.Cookies) == 0 {
		return nil, fmt.Errorf("session file %s contains no cookies", path)
	}

	return SessionCookies(f.Cookies), nil
}

func (s SessionCookies) toCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s))
	for name, value := range s {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies
}
