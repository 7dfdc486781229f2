// Package discover finds a timeclock server on the local network by probing
// candidate addresses against its discovery endpoint.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultPort is where the server listens unless reconfigured.
	DefaultPort = "5000"

	probeTimeout = 800 * time.Millisecond
	sweepWorkers = 32
)

// commonHosts are the usual router-assigned addresses worth trying before a
// full subnet sweep.
var commonHosts = []string{
	"192.168.1.100", "192.168.1.101", "192.168.0.100", "192.168.0.101",
	"10.0.0.100", "127.0.0.1",
}

// Info is the discovery endpoint's payload.
type Info struct {
	Server  string `json:"server"`
	Version string `json:"version"`
	Port    string `json:"port"`
}

// LocalIP reports the outbound interface address. Dialing UDP never sends a
// packet; it only resolves the route.
func LocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", fmt.Errorf("resolve outbound route: %w", err)
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address %T", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}

// Probe checks whether addr hosts a timeclock server.
func Probe(ctx context.Context, addr string) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/api/server_info", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe %s: status %d", addr, resp.StatusCode)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("probe %s: %w", addr, err)
	}
	if info.Server != "timeclock" {
		return nil, fmt.Errorf("probe %s: not a timeclock server", addr)
	}
	return &info, nil
}

// Find locates a server: the machine's own address first, then the common
// list, then a sweep of the local /24. Returns the first hit as host:port.
func Find(ctx context.Context) (string, error) {
	local, err := LocalIP()
	if err == nil {
		addr := net.JoinHostPort(local, DefaultPort)
		if _, err := Probe(ctx, addr); err == nil {
			return addr, nil
		}
	}

	for _, host := range commonHosts {
		addr := net.JoinHostPort(host, DefaultPort)
		if _, err := Probe(ctx, addr); err == nil {
			return addr, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	if local != "" {
		if addr, err := sweep(ctx, local); err == nil {
			return addr, nil
		}
	}
	return "", fmt.Errorf("no server found on the local network")
}

// sweep probes every host of the local /24 with a bounded worker pool and
// returns the first responder.
func sweep(ctx context.Context, localIP string) (string, error) {
	prefix := localIP[:strings.LastIndex(localIP, ".")+1]

	hosts := make(chan string)
	found := make(chan string, 1)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < sweepWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range hosts {
				addr := net.JoinHostPort(host, DefaultPort)
				if _, err := Probe(ctx, addr); err == nil {
					select {
					case found <- addr:
						cancel()
					default:
					}
					return
				}
			}
		}()
	}

	go func() {
		defer close(hosts)
		for i := 1; i <= 254; i++ {
			host := fmt.Sprintf("%s%d", prefix, i)
			if host == localIP {
				continue
			}
			select {
			case hosts <- host:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	select {
	case addr := <-found:
		return addr, nil
	default:
		return "", fmt.Errorf("subnet sweep found no server")
	}
}
