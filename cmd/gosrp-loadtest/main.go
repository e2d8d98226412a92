// Command gosrp-loadtest exercises the verification path under load.
//
// It seeds a set of SRP accounts, then runs two phases: a spread phase
// where workers verify distinct credentials, and a collapse phase where
// all workers verify the same credential so repeated submissions join
// the single in-flight handshake instead of recomputing it.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goSRP "github.com/MrEthical07/goSRP"
	"github.com/MrEthical07/goSRP/srp"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type seededAccount struct {
	username string
	password string
}

func main() {
	var (
		accounts    = flag.Int("accounts", 64, "number of accounts to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 2000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		group       = flag.String("group", "rfc5054.3072", "SRP group name")
		cacheTTL    = flag.Duration("cache-ttl", 60*time.Second, "verification cache TTL")
	)
	flag.Parse()

	if *accounts <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "accounts, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	srpGroup, err := srp.GroupByName(*group)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown group: %v\n", err)
		os.Exit(2)
	}

	provider := newSeedProvider()
	seeded := make([]seededAccount, *accounts)
	fmt.Printf("seeding %d accounts...\n", *accounts)
	startSeed := time.Now()
	for i := 0; i < *accounts; i++ {
		username := fmt.Sprintf("user-%d@example.com", i)
		password := fmt.Sprintf("password-%d", i)
		if err := provider.seed(srpGroup, username, password); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		seeded[i] = seededAccount{username: username, password: password}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	cfg := goSRP.DefaultConfig()
	cfg.SRP.Group = *group
	cfg.Verification.CacheTTL = *cacheTTL
	cfg.Session.SigningMethod = "hs256"
	cfg.Session.SigningKey = []byte("loadtest-signing-key-0123456789ab")

	engine, err := goSRP.New().
		WithConfig(cfg).
		WithRedis(client).
		WithAccountProvider(provider).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	spreadStats := runPhase(ctx, engine, *ops, *concurrency, func(r *rand.Rand) seededAccount {
		return seeded[r.Intn(len(seeded))]
	})
	collapseStats := runPhase(ctx, engine, *ops, *concurrency, func(*rand.Rand) seededAccount {
		return seeded[0]
	})

	snapshot := engine.MetricsSnapshot()

	fmt.Println("---- results ----")
	printStats("spread", spreadStats)
	printStats("collapse", collapseStats)
	fmt.Printf("cache: hits=%d misses=%d\n",
		snapshot.Counters[goSRP.MetricVerifyCacheHit],
		snapshot.Counters[goSRP.MetricVerifyCacheMiss])
}

func runPhase(ctx context.Context, engine *goSRP.Engine, ops, concurrency int, pick func(*rand.Rand) seededAccount) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				target := pick(r)
				t0 := time.Now()
				account, err := engine.Verify(ctx, target.username, target.password)
				d := time.Since(t0)
				if err != nil || account == nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond))
}

// ---------------------------------------------------------------------------
// In-memory provider for seeding
// ---------------------------------------------------------------------------

type seedProvider struct {
	mu       sync.RWMutex
	accounts map[string]*goSRP.Account
}

func newSeedProvider() *seedProvider {
	return &seedProvider{accounts: make(map[string]*goSRP.Account)}
}

func (p *seedProvider) seed(group *srp.Group, username, password string) error {
	salt, err := srp.NewSalt()
	if err != nil {
		return err
	}
	verifier, err := srp.ComputeVerifier(group, username, password, salt)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[username] = &goSRP.Account{
		Username: username,
		SRP:      salt.String() + "|" + verifier.String(),
	}
	return nil
}

func (p *seedProvider) GetAccount(_ context.Context, username string) (*goSRP.Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accounts[username], nil
}

func (p *seedProvider) NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
