package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateFromEntryFiltersPrefix(t *testing.T) {
	hub := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "WiserHeat052C2F"},
		HostName:      "WiserHeat052C2F.local.",
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
	}
	c, ok := candidateFromEntry(hub)
	require.True(t, ok)
	assert.Equal(t, "192.168.1.50", c.IP)
	assert.Equal(t, "WiserHeat052C2F.local.", c.Hostname)
	assert.Equal(t, "WiserHeat052C2F", c.Name)

	printer := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "Office Printer"},
		HostName:      "printer.local.",
	}
	_, ok = candidateFromEntry(printer)
	assert.False(t, ok)
}

func TestCollectReturnsEmptyAfterMaxSearch(t *testing.T) {
	candidates := make(chan Candidate)
	defer close(candidates)

	start := time.Now()
	found := collect(context.Background(), candidates, 50*time.Millisecond, 150*time.Millisecond)
	elapsed := time.Since(start)

	assert.Empty(t, found)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestCollectWaitsMinSearchThenReturnsResults(t *testing.T) {
	candidates := make(chan Candidate, 1)
	candidates <- Candidate{IP: "192.168.1.50", Name: "WiserHeat052C2F"}

	start := time.Now()
	found := collect(context.Background(), candidates, 50*time.Millisecond, time.Second)
	elapsed := time.Since(start)

	require.Len(t, found, 1)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestCollectDeduplicatesAnnouncements(t *testing.T) {
	candidates := make(chan Candidate, 3)
	c := Candidate{IP: "192.168.1.50", Hostname: "WiserHeat052C2F.local.", Name: "WiserHeat052C2F"}
	candidates <- c
	candidates <- c
	candidates <- Candidate{IP: "192.168.1.51", Hostname: "WiserHeat09AA01.local.", Name: "WiserHeat09AA01"}

	found := collect(context.Background(), candidates, 30*time.Millisecond, time.Second)
	assert.Len(t, found, 2)
}
