package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 200
	numDecks     = 20
)

var cardIDs = []string{"eth-1", "eth-2", "eth-3", "eth-4", "lotl-1", "lotl-2", "lotl-3"}
var variants = []string{"normal", "foil", "arctic", "sketch"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
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
	fmt.Println("=== Vibes Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Users: %d | Shared decks: %d\n\n", numUsers, numDecks)

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

	fmt.Println("\n--- Seeding shared public decks ---")
	deckIDs := seedDecks(rand.New(rand.NewSource(1)))
	if len(deckIDs) == 0 {
		fmt.Println("FAILED: no decks created")
		return
	}
	fmt.Printf("Created %d decks\n", len(deckIDs))

	// Phase 1: collection writes, contending per user
	fmt.Println("\n--- Phase 1: Collection writes (adjust/set) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.8 {
			return doAdjust(rng)
		}
		return doSet(rng)
	})

	// Phase 2: upvote storm on a handful of decks
	fmt.Println("\n--- Phase 2: Upvote contention (80% toggle, 20% list) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.8 {
			return doUpvote(rng, deckIDs)
		}
		return doGet("/decks/public?limit=20", "", "GET /decks/public")
	})

	// Phase 3: read-heavy mix
	fmt.Println("\n--- Phase 3: Read-heavy load (10% write, 90% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doAdjust(rng)
		case r < 0.40:
			return doGet("/cards?set=Eth&sort=rarity", "", "GET /cards")
		case r < 0.60:
			return doGet("/cards?ownership=owned", randomUser(rng), "GET /cards owned")
		case r < 0.75:
			return doGet("/collection", randomUser(rng), "GET /collection")
		case r < 0.90:
			return doGet("/deck?id="+deckIDs[rng.Intn(len(deckIDs))], "", "GET /deck")
		default:
			return doGet("/cards/suggest?q=pen", "", "GET /cards/suggest")
		}
	})
}

func randomUser(rng *rand.Rand) string {
	return fmt.Sprintf("user_%d", rng.Intn(numUsers))
}

func seedDecks(rng *rand.Rand) []string {
	ids := make([]string, 0, numDecks)
	for i := 0; i < numDecks; i++ {
		cards := make([]map[string]interface{}, 0, 4)
		for _, idx := range rng.Perm(len(cardIDs))[:4] {
			cards = append(cards, map[string]interface{}{"cardId": cardIDs[idx], "quantity": rng.Intn(3) + 1})
		}
		body := map[string]interface{}{
			"name":     fmt.Sprintf("Load Deck %d", i),
			"cards":    cards,
			"isPublic": true,
		}
		resp, err := send(http.MethodPost, "/deck/save", fmt.Sprintf("owner_%d", i), body)
		if err != nil {
			continue
		}
		var out struct {
			ID string `json:"id"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if resp.StatusCode == http.StatusCreated && out.ID != "" {
			ids = append(ids, out.ID)
		}
	}
	return ids
}

func send(method, path, userID string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
		req.Header.Set("X-User-Name", strings.ToUpper(userID))
	}
	return httpClient.Do(req)
}

func timed(endpoint, method, path, userID string, body interface{}, want int) result {
	start := time.Now()
	resp, err := send(method, path, userID, body)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func doAdjust(rng *rand.Rand) result {
	delta := 1
	if rng.Float64() < 0.3 {
		delta = -1
	}
	body := map[string]interface{}{
		"cardId":  cardIDs[rng.Intn(len(cardIDs))],
		"variant": variants[rng.Intn(len(variants))],
		"delta":   delta,
	}
	return timed("POST /collection/adjust", http.MethodPost, "/collection/adjust", randomUser(rng), body, http.StatusOK)
}

func doSet(rng *rand.Rand) result {
	body := map[string]interface{}{
		"cardId":  cardIDs[rng.Intn(len(cardIDs))],
		"variant": variants[rng.Intn(len(variants))],
		"value":   rng.Intn(5),
	}
	return timed("POST /collection/set", http.MethodPost, "/collection/set", randomUser(rng), body, http.StatusOK)
}

func doUpvote(rng *rand.Rand, deckIDs []string) result {
	body := map[string]interface{}{"id": deckIDs[rng.Intn(len(deckIDs))]}
	return timed("POST /deck/upvote", http.MethodPost, "/deck/upvote", randomUser(rng), body, http.StatusOK)
}

func doGet(path, userID, endpoint string) result {
	return timed(endpoint, http.MethodGet, path, userID, nil, http.StatusOK)
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

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
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
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
