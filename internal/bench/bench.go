package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"iobench/internal/chart"
	"iobench/internal/histogram"
	"iobench/internal/logger"
	"iobench/internal/storage"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// smokeValue はスモークテストで書き込む固定値
const smokeValue = "Hello World"

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randomPayload は英数字のランダム文字列を生成する
func randomPayload(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(b)
}

// Engine はベンチマーク実行エンジン
type Engine struct {
	config   Config
	client   storage.Client
	payload  string // 全シーケンスで共有する読み取り専用ペイロード
	renderer *chart.Renderer

	mu      sync.Mutex
	running bool

	// モニタ用の進捗カウンタ（ペーシングループが書き、サーバが読む）
	active    atomic.Bool
	campaign  atomic.Int64
	rate      atomic.Int64
	scheduled atomic.Uint64
	completed atomic.Uint64
	missed    atomic.Uint64
	total     atomic.Uint64

	chartsDisabled bool
}

// New は新しいEngineを作成する
// ペイロードはここで一度だけ生成し、以後変更しない
func New(client storage.Client, config Config) *Engine {
	return &Engine{
		config:   config,
		client:   client,
		payload:  randomPayload(config.PayloadSize),
		renderer: chart.New(config.OutDir),
	}
}

// Config は設定を返す
func (e *Engine) Config() Config {
	return e.config
}

// sample は1シーケンス分のレイテンシサンプル
type sample struct {
	write  time.Duration
	read   time.Duration
	delete time.Duration
}

// Run はスモークテストと全キャンペーンを実行する
// バックエンドエラーと整合性違反は即座に全体を失敗させる
func (e *Engine) Run(ctx context.Context) ([]*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("benchmark is already running")
	}
	e.running = true
	e.mu.Unlock()

	e.active.Store(true)
	defer func() {
		e.active.Store(false)
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if err := e.client.Init(); err != nil {
		return nil, fmt.Errorf("client init: %w", err)
	}

	logger.Info("bench", "smoke test: write-read-delete round trip")
	if err := e.smokeTest(); err != nil {
		return nil, fmt.Errorf("smoke test: %w", err)
	}

	results := make([]*Result, 0, len(e.config.Rates))
	for i, rate := range e.config.Rates {
		e.campaign.Store(int64(i))
		logger.Info("bench", "campaign %d/%d: qps=%d duration=%v",
			i+1, len(e.config.Rates), rate, e.config.Duration)

		result, err := e.runCampaign(ctx, rate)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// smokeTest は計測なしの整合性チェックを行う
// ここで失敗するバックエンドは計測する意味がない
func (e *Engine) smokeTest() error {
	key := e.client.GenUniqueKey()
	h := e.client.Handler()

	if err := h.Write(key, smokeValue); err != nil {
		return err
	}
	value, err := h.Read(key)
	if err != nil {
		return err
	}
	if value != smokeValue {
		return &ViolationError{Op: "read", Key: key,
			Reason: fmt.Sprintf("got %q, want %q", value, smokeValue)}
	}
	if err := h.Delete(key); err != nil {
		return err
	}
	if _, err := h.Read(key); err == nil {
		return &ViolationError{Op: "read", Key: key,
			Reason: "read succeeded after delete"}
	}
	return nil
}

// runCampaign は単一レートのキャンペーンを実行する
//
// ディスパッチ時刻は常に直前の予定時刻 + 1/rate で進める。
// 遅れてもwall clockに再同期しない（missedとして数えるだけ）
func (e *Engine) runCampaign(ctx context.Context, rate int) (*Result, error) {
	total := int(float64(rate) * e.config.Duration.Seconds())
	interval := time.Second / time.Duration(rate)

	e.rate.Store(int64(rate))
	e.scheduled.Store(0)
	e.completed.Store(0)
	e.missed.Store(0)
	e.total.Store(uint64(total))

	result := &Result{
		Rate:       rate,
		Scheduled:  total,
		TestTime:   e.config.Duration,
		Write:      histogram.New(),
		Read:       histogram.New(),
		Delete:     histogram.New(),
		ChartPaths: make(map[string]string),
	}

	var bar *progressbar.ProgressBar
	if e.config.Progress {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(fmt.Sprintf("qps %d", rate)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	samples := make(chan sample, total)
	var g errgroup.Group

	begin := time.Now()
	deadline := begin
	missed := 0
	var dispatchErr error

	for i := 0; i < total; i++ {
		if i > 0 {
			deadline = deadline.Add(interval)
			if wait := time.Until(deadline); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					dispatchErr = ctx.Err()
				case <-timer.C:
				}
			} else {
				missed++
				e.missed.Add(1)
			}
		}
		if dispatchErr != nil {
			break
		}

		// キー生成はペーシングループ内でのみ行い直列化する
		key := e.client.GenUniqueKey()
		h := e.client.Handler()
		g.Go(func() error {
			s, err := e.runSequence(h, key)
			if err != nil {
				return err
			}
			samples <- s
			e.completed.Add(1)
			return nil
		})

		e.scheduled.Add(1)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	// ディスパッチ済みのシーケンスは中断せず完了を待つ
	err := g.Wait()
	close(samples)
	if bar != nil {
		_ = bar.Finish()
	}
	if err == nil {
		err = dispatchErr
	}
	if err != nil {
		return nil, fmt.Errorf("campaign qps=%d: %w", rate, err)
	}

	for s := range samples {
		result.Write.Record(s.write)
		result.Read.Record(s.read)
		result.Delete.Record(s.delete)
	}
	result.Duration = time.Since(begin)
	result.Missed = missed

	if e.config.RenderCharts {
		e.renderCharts(result)
	}

	return result, nil
}

// runSequence は write→read→検証→delete→不在検証 を1回実行する
func (e *Engine) runSequence(h storage.Handler, key string) (sample, error) {
	var s sample

	start := time.Now()
	if err := h.Write(key, e.payload); err != nil {
		return s, err
	}
	s.write = time.Since(start)

	start = time.Now()
	value, err := h.Read(key)
	if err != nil {
		return s, err
	}
	s.read = time.Since(start)
	if value != e.payload {
		return s, &ViolationError{Op: "read", Key: key,
			Reason: fmt.Sprintf("value mismatch (%d bytes, want %d)", len(value), len(e.payload))}
	}

	start = time.Now()
	if err := h.Delete(key); err != nil {
		return s, err
	}
	s.delete = time.Since(start)

	if _, err := h.Read(key); err == nil {
		return s, &ViolationError{Op: "read", Key: key,
			Reason: "read succeeded after delete"}
	}

	return s, nil
}

// renderCharts は1キャンペーン分のチャートを書き出す
// gnuplotがなければ警告して以降のレンダリングを諦める
func (e *Engine) renderCharts(result *Result) {
	if e.chartsDisabled {
		return
	}
	for _, op := range result.operations() {
		name := fmt.Sprintf("%s-qps-%d", op.name, result.Rate)
		path, err := e.renderer.Render(name, op.hist)
		if err != nil {
			if errors.Is(err, chart.ErrGnuplotMissing) {
				logger.Warn("bench", "chart rendering disabled: %v", err)
				e.chartsDisabled = true
				return
			}
			logger.Warn("bench", "chart %s: %v", name, err)
			continue
		}
		result.ChartPaths[op.name] = path
	}
}
