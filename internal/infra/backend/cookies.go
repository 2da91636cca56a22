package backend

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// storedCookie is the on-disk shape of one session cookie.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveCookies persists the session cookies for the backend host, so CLI
// invocations share one signed-in session. Written with owner-only
// permissions.
func (c *Client) SaveCookies(path string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid base URL")
	}

	cookies := c.httpClient.Jar.Cookies(u)
	stored := make([]storedCookie, 0, len(cookies))
	for _, ck := range cookies {
		stored = append(stored, storedCookie{Name: ck.Name, Value: ck.Value})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal cookies")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write cookie file")
	}
	return nil
}

// LoadCookies restores previously saved session cookies. A missing file is
// not an error; it just means no session is stored yet.
func (c *Client) LoadCookies(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read cookie file")
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return errors.Wrap(err, "failed to parse cookie file")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid base URL")
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}
	c.httpClient.Jar.SetCookies(u, cookies)
	return nil
}

// ClearCookies removes the stored session cookie file.
func ClearCookies(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove cookie file")
	}
	return nil
}
