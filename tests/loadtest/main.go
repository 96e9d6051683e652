package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	neturl "net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL       = "http://127.0.0.1:8080"
	numWorkers    = 50
	testDuration  = 10 * time.Second
	numIdentities = 500
	revalidateMax = 20
)

var displayNames = []string{"Alice Smith", "Bob Jones", "Carol White", "Dave Brown", "Erin Black"}

var httpClient = &http.Client{
	Timeout: 35 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Avatard Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Identities: %d\n\n", numWorkers, testDuration, numIdentities)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Warm the record store with profile lookups
	fmt.Println("\n--- Phase 1: Warming cache (GET /profile) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetProfile(rng)
	})

	// Phase 2: Cache-hit heavy read load
	fmt.Println("\n--- Phase 2: Read-heavy load (90% profile, 10% status) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.90 {
			return doGetProfile(rng)
		}
		return doGetStatus()
	})

	// Phase 3: Mixed load with background revalidation pressure
	fmt.Println("\n--- Phase 3: Mixed load (80% profile, 10% status, 8% revalidate, 2% clear) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.80:
			return doGetProfile(rng)
		case r < 0.90:
			return doGetStatus()
		case r < 0.98:
			return doPostRevalidate(rng)
		default:
			return doPostClearExpired()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-28s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-28s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func identity(rng *rand.Rand) string {
	return fmt.Sprintf("user_%d", rng.Intn(numIdentities)+1)
}

func doGetProfile(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/profile/%s", baseURL, identity(rng))
	if rng.Float64() < 0.3 {
		url += "?name=" + neturl.QueryEscape(displayNames[rng.Intn(len(displayNames))])
	}
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /profile", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /profile", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetStatus() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/status")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /status", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /status", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doPostRevalidate(rng *rand.Rand) result {
	n := rng.Intn(revalidateMax) + 1
	identities := make([]string, n)
	for i := range identities {
		identities[i] = identity(rng)
	}

	data, _ := json.Marshal(map[string]interface{}{"identities": identities})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/profiles/revalidate", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /profiles/revalidate", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /profiles/revalidate", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doPostClearExpired() result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/cache/clear-expired", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /cache/clear-expired", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /cache/clear-expired", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
