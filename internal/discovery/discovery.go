// Package discovery finds heating hubs on the local network via multicast
// DNS. Hubs announce themselves as _http._tcp services whose instance name
// carries the hub prefix.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog/log"
)

const (
	// HubPrefix appears in every hub's mDNS service instance name.
	HubPrefix = "WiserHeat"

	serviceType   = "_http._tcp"
	serviceDomain = "local."

	// DefaultMinSearchTime is how long we keep listening when nothing has
	// answered yet.
	DefaultMinSearchTime = 2 * time.Second
	// DefaultMaxSearchTime caps the browse regardless of results.
	DefaultMaxSearchTime = 10 * time.Second
)

// Candidate is one discovered hub.
type Candidate struct {
	IP       string
	Hostname string
	Name     string
}

// Discover browses for hubs. It waits at least minSearch for late answers
// when none have arrived, and never longer than maxSearch.
func Discover(ctx context.Context, minSearch, maxSearch time.Duration) ([]Candidate, error) {
	if minSearch <= 0 {
		minSearch = DefaultMinSearchTime
	}
	if maxSearch <= 0 {
		maxSearch = DefaultMaxSearchTime
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("creating mDNS resolver: %w", err)
	}

	browseCtx, cancel := context.WithTimeout(ctx, maxSearch)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	candidates := make(chan Candidate)
	go func() {
		defer close(candidates)
		for entry := range entries {
			c, ok := candidateFromEntry(entry)
			if !ok {
				continue
			}
			log.Debug().Str("name", c.Name).Str("ip", c.IP).Msg("Found hub announcement")
			select {
			case candidates <- c:
			case <-browseCtx.Done():
				return
			}
		}
	}()
	if err := resolver.Browse(browseCtx, serviceType, serviceDomain, entries); err != nil {
		return nil, fmt.Errorf("browsing for hubs: %w", err)
	}

	return collect(browseCtx, candidates, minSearch, maxSearch), nil
}

// collect implements the bounded wait: stop at the first poll boundary
// after minSearch once at least one hub has answered, or at maxSearch.
func collect(ctx context.Context, candidates <-chan Candidate, minSearch, maxSearch time.Duration) []Candidate {
	var found []Candidate
	seen := make(map[string]bool)

	minTimer := time.NewTimer(minSearch)
	defer minTimer.Stop()
	maxTimer := time.NewTimer(maxSearch)
	defer maxTimer.Stop()
	minElapsed := false

	for {
		select {
		case c, ok := <-candidates:
			if !ok {
				return found
			}
			if !seen[c.Hostname+c.Name] {
				seen[c.Hostname+c.Name] = true
				found = append(found, c)
			}
			if minElapsed {
				return found
			}
		case <-minTimer.C:
			minElapsed = true
			if len(found) > 0 {
				return found
			}
		case <-maxTimer.C:
			return found
		case <-ctx.Done():
			return found
		}
	}
}

func candidateFromEntry(entry *zeroconf.ServiceEntry) (Candidate, bool) {
	if !strings.Contains(entry.Instance, HubPrefix) {
		return Candidate{}, false
	}
	c := Candidate{
		Hostname: entry.HostName,
		Name:     entry.Instance,
	}
	if len(entry.AddrIPv4) > 0 {
		c.IP = entry.AddrIPv4[0].String()
	}
	return c, true
}
