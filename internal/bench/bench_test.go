package bench

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"iobench/internal/memstore"
	"iobench/internal/storage"
)

func testConfig(rates []int, duration time.Duration) Config {
	return Config{
		PayloadSize:  11,
		Rates:        rates,
		Duration:     duration,
		RenderCharts: false,
		Progress:     false,
	}
}

func TestRunScenario(t *testing.T) {
	// rate=10, duration=1s: exactly 10 sequences, all samples recorded
	engine := New(memstore.New(), testConfig([]int{10}, time.Second))

	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Scheduled != 10 {
		t.Errorf("expected 10 scheduled sequences, got %d", r.Scheduled)
	}
	if r.Write.Count() != 10 {
		t.Errorf("expected 10 write samples, got %d", r.Write.Count())
	}
	if r.Read.Count() != 10 {
		t.Errorf("expected 10 read samples, got %d", r.Read.Count())
	}
	if r.Delete.Count() != 10 {
		t.Errorf("expected 10 delete samples, got %d", r.Delete.Count())
	}
}

func TestRunPacing(t *testing.T) {
	// 10 sequences at 20 qps: the last dispatch is scheduled at 450ms,
	// so the campaign cannot finish faster than that
	engine := New(memstore.New(), testConfig([]int{20}, 500*time.Millisecond))

	start := time.Now()
	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 450*time.Millisecond {
		t.Errorf("campaign finished too fast for open-loop pacing: %v", elapsed)
	}
	if results[0].Missed != 0 {
		t.Errorf("expected no missed deadlines against memstore, got %d", results[0].Missed)
	}
}

func TestRunMultipleCampaigns(t *testing.T) {
	engine := New(memstore.New(), testConfig([]int{10, 20}, 500*time.Millisecond))

	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Rate != 10 || results[1].Rate != 20 {
		t.Errorf("results out of order: %d, %d", results[0].Rate, results[1].Rate)
	}
	if results[0].Scheduled != 5 || results[1].Scheduled != 10 {
		t.Errorf("unexpected sequence counts: %d, %d", results[0].Scheduled, results[1].Scheduled)
	}
}

// stallingClient delays one key generation to force exactly one
// missed deadline in the pacing loop.
type stallingClient struct {
	*memstore.Client
	stallAt int
	stall   time.Duration
	calls   int
}

func (c *stallingClient) GenUniqueKey() string {
	c.calls++
	if c.calls == c.stallAt {
		time.Sleep(c.stall)
	}
	return c.Client.GenUniqueKey()
}

func TestMissedDeadline(t *testing.T) {
	// At 10 qps the interval is 100ms. Stalling dispatch by 150ms puts
	// exactly the next deadline in the past; the one after is again in
	// the future.
	client := &stallingClient{
		Client:  memstore.New(),
		stallAt: 3, // smoke test consumes the first key
		stall:   150 * time.Millisecond,
	}
	engine := New(client, testConfig([]int{10}, time.Second))

	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	r := results[0]
	if r.Missed != 1 {
		t.Errorf("expected exactly 1 missed deadline, got %d", r.Missed)
	}
	// Missed deadlines never drop sequences
	if r.Write.Count() != 10 {
		t.Errorf("expected 10 write samples, got %d", r.Write.Count())
	}
}

// brokenDeleteClient ignores deletes, so read-after-delete succeeds.
type brokenDeleteClient struct {
	*memstore.Client
}

func (c *brokenDeleteClient) Handler() storage.Handler {
	return brokenDeleteHandler{inner: c.Client.Handler()}
}

type brokenDeleteHandler struct {
	inner storage.Handler
}

func (h brokenDeleteHandler) Write(key, value string) error { return h.inner.Write(key, value) }
func (h brokenDeleteHandler) Read(key string) (string, error) {
	return h.inner.Read(key)
}
func (h brokenDeleteHandler) Delete(key string) error { return nil }

func TestSmokeTestDetectsBrokenDelete(t *testing.T) {
	engine := New(&brokenDeleteClient{Client: memstore.New()}, testConfig([]int{10}, time.Second))

	_, err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("expected smoke test to fail against broken delete")
	}
	var ve *ViolationError
	if !errors.As(err, &ve) {
		t.Errorf("expected *ViolationError, got %v", err)
	}
}

// corruptingClient returns a wrong value on every read.
type corruptingClient struct {
	*memstore.Client
}

func (c *corruptingClient) Handler() storage.Handler {
	return corruptingHandler{inner: c.Client.Handler()}
}

type corruptingHandler struct {
	inner storage.Handler
}

func (h corruptingHandler) Write(key, value string) error { return h.inner.Write(key, value) }
func (h corruptingHandler) Read(key string) (string, error) {
	v, err := h.inner.Read(key)
	if err != nil {
		return "", err
	}
	return v + "x", nil
}
func (h corruptingHandler) Delete(key string) error { return h.inner.Delete(key) }

func TestSmokeTestDetectsCorruption(t *testing.T) {
	engine := New(&corruptingClient{Client: memstore.New()}, testConfig([]int{10}, time.Second))

	_, err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("expected smoke test to fail against corrupting reads")
	}
	var ve *ViolationError
	if !errors.As(err, &ve) {
		t.Errorf("expected *ViolationError, got %v", err)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	engine := New(memstore.New(), testConfig([]int{10}, 10*time.Second))

	go func() {
		time.Sleep(250 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := engine.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	engine := New(memstore.New(), testConfig([]int{10}, time.Second))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = engine.Run(context.Background())
	}()

	// Give the first run time to take the lock
	time.Sleep(100 * time.Millisecond)
	if _, err := engine.Run(context.Background()); err == nil {
		t.Error("expected second concurrent run to fail")
	}
	<-done
}

func TestReportOrder(t *testing.T) {
	engine := New(memstore.New(), testConfig([]int{10}, time.Second))

	results, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	report := results[0].Report()
	duration := strings.Index(report, "DURATION TIME:")
	missed := strings.Index(report, "MISSED SLEEP:")
	write := strings.Index(report, "WRITE HISTOGRAM:")
	read := strings.Index(report, "READ HISTOGRAM:")
	del := strings.Index(report, "DELETE HISTOGRAM:")

	for name, idx := range map[string]int{
		"duration": duration, "missed": missed,
		"write": write, "read": read, "delete": del,
	} {
		if idx < 0 {
			t.Fatalf("report missing %s section:\n%s", name, report)
		}
	}
	if !(duration < missed && missed < write && write < read && read < del) {
		t.Errorf("report sections out of order:\n%s", report)
	}
}

func TestMissedPercent(t *testing.T) {
	r := &Result{Scheduled: 300, Missed: 3}
	if got := r.MissedPercent(); got != 1.0 {
		t.Errorf("expected 1.0%%, got %v", got)
	}

	empty := &Result{}
	if got := empty.MissedPercent(); got != 0 {
		t.Errorf("expected 0 for empty result, got %v", got)
	}
}

func TestRandomPayload(t *testing.T) {
	p := randomPayload(256)
	if len(p) != 256 {
		t.Fatalf("expected 256 bytes, got %d", len(p))
	}
	for _, c := range p {
		if !strings.ContainsRune(alphanumeric, c) {
			t.Errorf("unexpected payload character %q", c)
		}
	}

	// Payload is generated once at construction time
	engine := New(memstore.New(), testConfig([]int{10}, time.Second))
	if len(engine.payload) != 11 {
		t.Errorf("expected payload of 11 bytes, got %d", len(engine.payload))
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg, ok := GetPreset(name)
		if !ok {
			t.Errorf("preset %s not found", name)
			continue
		}
		if len(cfg.Rates) == 0 || cfg.Duration <= 0 || cfg.PayloadSize <= 0 {
			t.Errorf("preset %s has invalid fields: %+v", name, cfg)
		}
	}

	if _, ok := GetPreset("nope"); ok {
		t.Error("unknown preset should not resolve")
	}
}
