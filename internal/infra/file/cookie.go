package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// CookieStore mirrors small values as cookies in a Set-Cookie formatted
// file, one cookie per line. Expired cookies read as absent.
type CookieStore struct {
	path   string
	maxAge time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// NewCookieStore keeps cookies for maxAge (one year when zero).
func NewCookieStore(path string, maxAge time.Duration) *CookieStore {
	if maxAge <= 0 {
		maxAge = 365 * 24 * time.Hour
	}
	return &CookieStore{path: path, maxAge: maxAge, now: time.Now}
}

func (c *CookieStore) load() (map[string]*http.Cookie, error) {
	cookies := make(map[string]*http.Cookie)
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cookies, nil
	}
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cookie, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		cookies[cookie.Name] = cookie
	}
	return cookies, nil
}

func (c *CookieStore) save(cookies map[string]*http.Cookie) error {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(cookies[name].String())
		buf.WriteByte('\n')
	}
	return writeAtomic(c.path, buf.Bytes())
}

func (c *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cookies, err := c.load()
	if err != nil {
		return "", false, err
	}
	cookie, ok := cookies[key]
	if !ok || (!cookie.Expires.IsZero() && cookie.Expires.Before(c.now())) {
		return "", false, nil
	}
	return cookie.Value, true, nil
}

func (c *CookieStore) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cookies, err := c.load()
	if err != nil {
		return err
	}
	cookies[key] = &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		Expires:  c.now().Add(c.maxAge).UTC().Truncate(time.Second),
		SameSite: http.SameSiteLaxMode,
	}
	return c.save(cookies)
}

func (c *CookieStore) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cookies, err := c.load()
	if err != nil {
		return err
	}
	if _, ok := cookies[key]; !ok {
		return nil
	}
	delete(cookies, key)
	return c.save(cookies)
}

func (c *CookieStore) Keys(_ context.Context, prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cookies, err := c.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0)
	for name := range cookies {
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
