package proxy

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"sjsage522/orgcrawler/logger"

	"golang.org/x/sync/semaphore"
)

// DefaultProbeTimeout bounds a single candidate probe
const DefaultProbeTimeout = 5 * time.Second

// Info holds a probed proxy candidate
type Info struct {
	// Server is the browser proxy setting, e.g. socks5://10.0.0.2:1080
	Server   string
	Scheme   string
	Address  string
	Latency  time.Duration
	Working  bool
	LastTest time.Time
}

// Selector picks the fastest working proxy from a fixed candidate list
type Selector struct {
	candidates  []string
	timeout     time.Duration
	concurrency int
	logger      *logger.Logger
}

// NewSelector creates a selector over candidates (host:port, http://host:port
// or socks5://host:port)
func NewSelector(candidates []string, timeout time.Duration, log *logger.Logger) *Selector {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Selector{
		candidates:  candidates,
		timeout:     timeout,
		concurrency: 10,
		logger:      log.ForComponent("proxy"),
	}
}

// parseCandidate normalizes a candidate into scheme and host:port
func parseCandidate(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Info{}, err
	}
	if u.Hostname() == "" || u.Port() == "" {
		return Info{}, fmt.Errorf("proxy %q must be host:port", raw)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return Info{}, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	return Info{
		Server:  u.Scheme + "://" + u.Host,
		Scheme:  u.Scheme,
		Address: u.Host,
	}, nil
}

// Probe tests every candidate and returns the working ones, fastest first
func (s *Selector) Probe(ctx context.Context) []Info {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		working []Info
	)
	sem := semaphore.NewWeighted(int64(s.concurrency))

	for _, raw := range s.candidates {
		info, err := parseCandidate(raw)
		if err != nil {
			s.logger.WithError(err).Warn().Str("candidate", raw).Msg("Ignoring proxy candidate")
			continue
		}

		wg.Add(1)
		go func(info Info) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			s.testLatency(ctx, &info)
			if info.Working {
				mu.Lock()
				working = append(working, info)
				mu.Unlock()
			}
		}(info)
	}
	wg.Wait()

	sort.Slice(working, func(i, j int) bool {
		return working[i].Latency < working[j].Latency
	})
	return working
}

// Fastest returns the fastest working candidate
func (s *Selector) Fastest(ctx context.Context) (*Info, error) {
	if len(s.candidates) == 0 {
		return nil, fmt.Errorf("no proxy candidates configured")
	}

	working := s.Probe(ctx)
	if len(working) == 0 {
		return nil, fmt.Errorf("none of %d proxy candidates is reachable", len(s.candidates))
	}

	for i, p := range working {
		s.logger.Debug().Int("rank", i+1).Str("server", p.Server).Dur("latency", p.Latency).Msg("Working proxy")
	}
	return &working[0], nil
}

// testLatency dials the candidate and, for SOCKS5, checks the handshake
func (s *Selector) testLatency(ctx context.Context, info *Info) {
	start := time.Now()
	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", info.Address)
	if err != nil {
		s.logger.Debug().Str("proxy", info.Server).Err(err).Msg("TCP connection failed")
		info.Working = false
		return
	}
	defer conn.Close()

	if info.Scheme == "socks5" && !s.testSOCKS5Handshake(conn) {
		s.logger.Debug().Str("proxy", info.Server).Msg("SOCKS5 handshake failed")
		info.Working = false
		return
	}

	info.Working = true
	info.Latency = time.Since(start)
	info.LastTest = time.Now()
}

// testSOCKS5Handshake performs a no-authentication SOCKS5 greeting
func (s *Selector) testSOCKS5Handshake(conn net.Conn) bool {
	conn.SetDeadline(time.Now().Add(s.timeout))
	defer conn.SetDeadline(time.Time{})

	// [VER=5, NMETHODS=1, METHOD=no auth]
	if _, err := conn.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		return false
	}

	// [VER, METHOD]
	resp := make([]byte, 2)
	if _, err := conn.Read(resp); err != nil {
		return false
	}
	return resp[0] == 0x05 && resp[1] == 0x00
}
