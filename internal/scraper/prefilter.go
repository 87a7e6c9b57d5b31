// internal/scraper/prefilter.go
package scraper

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Prefilter probes source URLs before the expensive fetch: a DNS lookup
// followed by a HEAD request with a short timeout. Hosts on the unreliable
// allowlist bypass the probe entirely, since some government portals reject
// HEAD or respond too slowly while still serving GET.
type Prefilter struct {
	client          *http.Client
	timeout         time.Duration
	allowUnreliable map[string]struct{}
}

// NewPrefilter creates a prefilter with the given probe timeout and a list of
// hosts that always pass.
func NewPrefilter(timeout time.Duration, allowUnreliable []string) *Prefilter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	allow := make(map[string]struct{}, len(allowUnreliable))
	for _, host := range allowUnreliable {
		allow[strings.ToLower(host)] = struct{}{}
	}
	return &Prefilter{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout:         timeout,
		allowUnreliable: allow,
	}
}

// Check reports whether the URL looks reachable. The returned reason is empty
// when reachable, otherwise a short human-readable explanation for the scrape
// log.
func (p *Prefilter) Check(ctx context.Context, rawURL string) (bool, string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, "malformed URL"
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := p.allowUnreliable[host]; ok {
		return true, ""
	}

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if _, err := net.DefaultResolver.LookupHost(lookupCtx, u.Hostname()); err != nil {
		return false, fmt.Sprintf("DNS lookup failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, "malformed URL"
	}
	req.Header.Set("User-Agent", "StatHarvester/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("HEAD probe failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false, fmt.Sprintf("HEAD probe returned %d", resp.StatusCode)
	}
	return true, ""
}
