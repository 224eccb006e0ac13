// Package chart renders histogram distributions as PNG images.
//
// Rendering shells out to gnuplot: a plot script is generated from a
// template with the bucket data inlined, then piped to the gnuplot
// binary. Charts are diagnostic artifacts only; a missing gnuplot
// installation is reported as ErrGnuplotMissing and the benchmark
// result is unaffected.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"iobench/internal/histogram"
)

// ErrGnuplotMissing はgnuplotが見つからないことを表す
var ErrGnuplotMissing = errors.New("gnuplot binary not found in PATH")

const scriptTemplate = `set terminal png size 1920,960
set output '{{.Path}}'
set title '{{.Title}}'
set ylabel 'percent of max bucket'
set xlabel 'bucket'
set yrange [0:110]
set xtics rotate by 45 right
set style fill solid 0.5
set boxwidth 0.8
plot '-' using 1:3:xtic(2) with boxes notitle
{{range .Bars}}{{.Index}} {{.Label}} {{printf "%.2f" .Height}}
{{end}}e
`

var plotScript = template.Must(template.New("plot").Parse(scriptTemplate))

type bar struct {
	Index  int
	Label  string
	Height float64
}

type plotData struct {
	Path  string
	Title string
	Bars  []bar
}

// Renderer はヒストグラムのチャートを出力ディレクトリに書き出す
type Renderer struct {
	dir string
}

// New は新しいRendererを作成する
func New(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render は name.png をレンダリングし、そのパスを返す
func (r *Renderer) Render(name string, h *histogram.Histogram) (string, error) {
	if _, err := exec.LookPath("gnuplot"); err != nil {
		return "", ErrGnuplotMissing
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir %s: %w", r.dir, err)
	}

	path := filepath.Join(r.dir, name+".png")
	script := Script(path, name, h.Counts())

	cmd := exec.Command("gnuplot")
	cmd.Stdin = strings.NewReader(script)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("gnuplot %s: %w (%s)", name, err, strings.TrimSpace(stderr.String()))
	}
	return path, nil
}

// Script はgnuplotスクリプトを生成する（純関数）
// 各バーの高さは最大バケットのシェアを100とした相対値
// （シェアの比なのでサンプル総数は打ち消される）
func Script(path, title string, counts []uint64) string {
	var maxCount uint64
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	bars := make([]bar, len(counts))
	for i, c := range counts {
		var height float64
		if maxCount > 0 {
			height = float64(c) * 100 / float64(maxCount)
		}
		bars[i] = bar{
			Index:  i,
			Label:  histogram.BucketName(i),
			Height: height,
		}
	}

	var buf bytes.Buffer
	// テンプレートは静的に検証済みなので失敗しない
	_ = plotScript.Execute(&buf, plotData{Path: path, Title: title, Bars: bars})
	return buf.String()
}
