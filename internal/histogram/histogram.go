package histogram

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// NumEdges はオーバーフローを除くバケット数
const NumEdges = 26

// テキスト描画の幅（フィル文字の最大数）
const textWidth = 100

// hdrMaxMicros はHdrHistogramが追跡する最大値（60秒）
const hdrMaxMicros = 60 * 1000 * 1000

// edges はバケット上限のテーブル（µs単位、32から√2刻み）
// 全ヒストグラムで読み取り専用に共有する
var edges = buildEdges()

func buildEdges() [NumEdges]float64 {
	var e [NumEdges]float64
	v := 32.0
	for k := 0; k < NumEdges; k++ {
		e[k] = v
		v *= math.Sqrt2
	}
	return e
}

// Edges はバケット上限テーブルのコピーを返す
func Edges() []float64 {
	out := make([]float64, NumEdges)
	copy(out, edges[:])
	return out
}

// BucketName はバケットのラベルを返す（インデックスの純関数）
// テーブル外は "+inf"、1000µs未満はµs、それ以上はms表記
func BucketName(idx int) string {
	if idx < 0 || idx >= NumEdges {
		return "+inf"
	}
	v := edges[idx]
	if v < 1000 {
		return fmt.Sprintf("%.2fµs", v)
	}
	return fmt.Sprintf("%.2fms", v/1000)
}

// Histogram はレイテンシサンプルの分布を保持する
type Histogram struct {
	mu     sync.Mutex
	counts [NumEdges + 1]uint64 // 最後の要素はオーバーフロー
	total  uint64
	hdr    *hdrhistogram.Histogram
}

// New は新しいHistogramを作成する
func New() *Histogram {
	return &Histogram{
		hdr: hdrhistogram.New(1, hdrMaxMicros, 3),
	}
}

// Record はサンプルを記録する（µs分解能）
// 並行して呼び出してよい
func (h *Histogram) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.counts[bucketIndex(float64(us))]++
	h.total++

	clamped := us
	if clamped < 1 {
		clamped = 1
	}
	if clamped > hdrMaxMicros {
		clamped = hdrMaxMicros
	}
	_ = h.hdr.RecordValue(clamped)
}

// bucketIndex はサンプル以上の最初のエッジを返す
// どのエッジにも収まらなければオーバーフロー（NumEdges）
func bucketIndex(us float64) int {
	for i, edge := range edges {
		if us <= edge {
			return i
		}
	}
	return NumEdges
}

// Count は記録されたサンプル総数を返す
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

// Counts はバケットごとの度数を返す（最後の要素はオーバーフロー）
func (h *Histogram) Counts() []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]uint64, NumEdges+1)
	copy(out, h.counts[:])
	return out
}

// Cumulative は各エッジ以下の累積度数を返す
// 値はエッジのインデックスに対して単調非減少
func (h *Histogram) Cumulative() []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]uint64, NumEdges)
	var cum uint64
	for i := 0; i < NumEdges; i++ {
		cum += h.counts[i]
		out[i] = cum
	}
	return out
}

// Quantile は分位点のレイテンシを返す（q は 0〜100）
func (h *Histogram) Quantile(q float64) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Duration(h.hdr.ValueAtQuantile(q)) * time.Microsecond
}

// Max は記録された最大レイテンシを返す
func (h *Histogram) Max() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Duration(h.hdr.Max()) * time.Microsecond
}

// RenderText はヒストグラムをテキストで描画する
// エッジは密度を抑えるため2つ飛ばしで表示し、表示行ごとに
// 直前の表示行からの増分とその割合のフィルを出す
func (h *Histogram) RenderText(indent string) string {
	counts := h.Counts()
	total := h.Count()

	var b strings.Builder
	sep := indent + strings.Repeat("-", 10+1+textWidth+1+10) + "\n"
	b.WriteString(sep)

	// 2バケットずつまとめ、ペアの上側エッジをラベルにする
	var before uint64
	var cum uint64
	for i := 0; i < NumEdges; i += 2 {
		cum += counts[i] + counts[i+1]
		delta := cum - before
		before = cum
		writeRow(&b, indent, BucketName(i+1), delta, total)
	}
	writeRow(&b, indent, "+inf", total-before, total)

	b.WriteString(sep)
	b.WriteString(fmt.Sprintf("%s%-10s p50=%v p90=%v p99=%v max=%v\n",
		indent, "SUMMARY:",
		h.Quantile(50), h.Quantile(90), h.Quantile(99), h.Max()))
	return b.String()
}

// writeRow は1行分（ラベル、フィル、増分）を書き出す
func writeRow(b *strings.Builder, indent, label string, delta, total uint64) {
	dots := 0
	if total > 0 {
		dots = int((delta*textWidth + total - 1) / total)
	}
	if dots > textWidth {
		dots = textWidth
	}
	fmt.Fprintf(b, "%s%-10s %s%s %d\n",
		indent, label,
		strings.Repeat(".", dots),
		strings.Repeat(" ", textWidth-dots),
		delta,
	)
}
