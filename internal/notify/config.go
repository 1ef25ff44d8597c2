package notify

import "sync"

// Config holds the WhatsApp gateway endpoint and token. Values managed
// from the business-settings panel take precedence; the environment is
// the fallback. The holder is injected and reloaded explicitly by its
// owners (main at boot, the settings handler on update) instead of
// expiring on its own.
type Config struct {
	mu sync.RWMutex

	url string
	key string

	fallbackURL string
	fallbackKey string

	defaultCountryCode string
}

func NewConfig(envURL, envKey, defaultCountryCode string) *Config {
	return &Config{
		fallbackURL:        envURL,
		fallbackKey:        envKey,
		defaultCountryCode: defaultCountryCode,
	}
}

// Set replaces the panel-managed values. Empty strings clear them and
// fall back to the environment.
func (c *Config) Set(url, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = url
	c.key = key
}

// Current returns the effective endpoint and token.
func (c *Config) Current() (url, key string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	url, key = c.url, c.key
	if url == "" {
		url = c.fallbackURL
	}
	if key == "" {
		key = c.fallbackKey
	}
	return url, key
}

func (c *Config) DefaultCountryCode() string {
	return c.defaultCountryCode
}
