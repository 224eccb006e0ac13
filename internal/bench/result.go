package bench

import (
	"fmt"
	"strings"
	"time"

	"iobench/internal/histogram"
)

// Result は1キャンペーンの実行結果
type Result struct {
	Rate      int           // 目標レート（ops/sec）
	Scheduled int           // スケジュールしたシーケンス数
	TestTime  time.Duration // 設定上の実行時間
	Duration  time.Duration // 実際の所要時間（join完了まで）
	Missed    int           // 期限を過ぎていたディスパッチ数

	Write  *histogram.Histogram
	Read   *histogram.Histogram
	Delete *histogram.Histogram

	ChartPaths map[string]string // 操作名 -> 出力した画像パス
}

// MissedPercent はmissed deadlineの割合を返す（0〜100）
func (r *Result) MissedPercent() float64 {
	if r.Scheduled == 0 {
		return 0
	}
	return float64(r.Missed) * 100 / float64(r.Scheduled)
}

type operation struct {
	name string
	hist *histogram.Histogram
}

// operations は固定の報告順（write, read, delete）を返す
func (r *Result) operations() []operation {
	return []operation{
		{"write", r.Write},
		{"read", r.Read},
		{"delete", r.Delete},
	}
}

// Report は結果を人間向けにフォーマットして返す
// 順序は固定: 所要時間、missed、write/read/deleteのヒストグラム
func (r *Result) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, "TEST:\n")
	fmt.Fprintf(&b, "  QPS:           %d\n", r.Rate)
	fmt.Fprintf(&b, "  TEST TIME:     %v\n", r.TestTime)
	fmt.Fprintf(&b, "  SCHEDULED:     %d\n", r.Scheduled)
	fmt.Fprintf(&b, "  DURATION TIME: %v\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  MISSED SLEEP:  %d (%.2f%%)\n", r.Missed, r.MissedPercent())

	for _, op := range r.operations() {
		fmt.Fprintf(&b, "  %s HISTOGRAM:\n", strings.ToUpper(op.name))
		b.WriteString(op.hist.RenderText("    "))
		if path, ok := r.ChartPaths[op.name]; ok {
			fmt.Fprintf(&b, "    See also: %s\n", path)
		}
	}

	return b.String()
}
