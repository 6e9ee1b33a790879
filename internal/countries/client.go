package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"flag-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefaultAPIURL is the restcountries endpoint queried when none is configured.
const DefaultAPIURL = "https://restcountries.com/v3.1/all?fields=name,flags,cca2,cca3,translations"

// DefaultTrustedFlagHost is the image host a record's SVG flag must resolve
// to in order to pass the quality filter.
const DefaultTrustedFlagHost = "flagcdn.com"

// Client fetches the country list from a restcountries-style HTTP endpoint.
// The first successful result is cached for the process lifetime; concurrent
// first callers share a single in-flight request. Failures are never cached.
type Client struct {
	apiURL      string
	trustedHost string
	httpClient  *http.Client
	sf          singleflight.Group

	mu     sync.RWMutex
	cached []domain.Country
}

// NewClient builds a client for apiURL (empty selects DefaultAPIURL) with
// the given request timeout.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:      apiURL,
		trustedHost: DefaultTrustedFlagHost,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// apiCountry mirrors the restcountries v3 payload shape.
type apiCountry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Translations map[string]struct {
		Official string `json:"official"`
		Common   string `json:"common"`
	} `json:"translations"`
	Flags struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
	CCA2 string `json:"cca2"`
	CCA3 string `json:"cca3"`
}

// Countries returns the filtered country list, fetching it on first use.
func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	c.mu.RLock()
	if c.cached != nil {
		cached := c.cached
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("countries", func() (interface{}, error) {
		// Re-check in case another caller populated the cache.
		c.mu.RLock()
		if c.cached != nil {
			cached := c.cached
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()

		list, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cached = list
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", domain.ErrDataUnavailable, resp.Status)
	}

	var raw []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", domain.ErrNoUsableData, err)
	}

	list := make([]domain.Country, 0, len(raw))
	for _, rc := range raw {
		if rc.Name.Common == "" || rc.Flags.SVG == "" {
			continue
		}
		if !c.trustedFlag(rc.Flags.SVG) {
			continue
		}
		country := domain.Country{
			Code:    rc.CCA3,
			CCA2:    rc.CCA2,
			Name:    rc.Name.Common,
			FlagPNG: rc.Flags.PNG,
			FlagSVG: rc.Flags.SVG,
		}
		if fra, ok := rc.Translations["fra"]; ok {
			country.NameFR = fra.Common
		}
		list = append(list, country)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: payload had no records passing the flag filter", domain.ErrNoUsableData)
	}
	return list, nil
}

// trustedFlag reports whether the flag image URL is served from the trusted host.
func (c *Client) trustedFlag(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == c.trustedHost || strings.HasSuffix(host, "."+c.trustedHost)
}
