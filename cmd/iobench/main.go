// Package main is the entry point for iobench.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"iobench/internal/api"
	"iobench/internal/bench"
	"iobench/internal/config"
	"iobench/internal/localfs"
	"iobench/internal/logger"
	"iobench/internal/memstore"
	"iobench/internal/storage"
)

var (
	version = "dev"
)

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		presetName  = flag.String("preset", "", "プリセット名 (quick, standard, soak)")
		ratesFlag   = flag.String("rates", "", "目標レートのカンマ区切りリスト (例: 10,100,1000)")
		payloadSize = flag.Int("payload-size", 0, "ペイロードのバイト数")
		duration    = flag.Duration("duration", 0, "1キャンペーンの実行時間 (例: 30s, 1m)")
		clientName  = flag.String("client", "", "ストレージクライアント (localfs, mem)")
		rootDir     = flag.String("root", "", "localfsクライアントのルートディレクトリ")
		outDir      = flag.String("out", "", "チャート画像の出力先ディレクトリ")
		noCharts    = flag.Bool("no-charts", false, "チャート出力を無効化")
		serverMode  = flag.Bool("serve", false, "モニタサーバーを起動")
		serverAddr  = flag.String("addr", ":8080", "モニタサーバーのアドレス (例: :8080)")
		logLevel    = flag.String("log-level", "", "ログレベル (debug, info, warn, error)")
		listPresets = flag.Bool("list-presets", false, "利用可能なプリセットを表示")
		showVersion = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `iobench - Open-Loop KV Storage Latency Benchmark

Usage:
  iobench [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # プリセットで実行
  iobench --preset quick

  # 設定ファイルから実行
  iobench --config bench.yaml

  # フラグでカスタマイズ
  iobench --rates 10,100,1000 --duration 30s --client mem

  # モニタサーバー付きで実行
  iobench --preset standard --serve --addr :8080
`)
	}

	flag.Parse()

	// バージョン表示
	if *showVersion {
		fmt.Printf("iobench version %s\n", version)
		return
	}

	// プリセット一覧表示
	if *listPresets {
		printPresets()
		return
	}

	benchConfig, client, err := buildConfig(
		*configFile, *presetName, *ratesFlag, *clientName, *rootDir, *outDir,
		*payloadSize, *duration, *noCharts,
	)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	// フラグのログレベルは設定ファイルより優先する
	if *logLevel != "" {
		level, err := logger.ParseLevel(*logLevel)
		if err != nil {
			logger.Error("", "設定エラー: %v", err)
			os.Exit(1)
		}
		logger.Default.SetLevel(level)
	}

	if err := run(benchConfig, client, *serverMode, *serverAddr); err != nil {
		logger.Error("", "ベンチマーク実行エラー: %v", err)
		os.Exit(1)
	}
}

// buildConfig は設定とストレージクライアントを構築する
// 優先順位: フラグ > 設定ファイル/プリセット > デフォルト
func buildConfig(
	configFile, presetName, ratesFlag, clientName, rootDir, outDir string,
	payloadSize int, duration time.Duration, noCharts bool,
) (bench.Config, storage.Client, error) {
	cfg := bench.DefaultConfig()
	selectedClient := config.ClientLocalFS
	root := os.TempDir()

	switch {
	case configFile != "":
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return cfg, nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		if err := fileConfig.Validate(); err != nil {
			return cfg, nil, fmt.Errorf("設定検証エラー: %w", err)
		}
		cfg, err = fileConfig.ToBenchConfig()
		if err != nil {
			return cfg, nil, fmt.Errorf("設定変換エラー: %w", err)
		}
		selectedClient = fileConfig.Client()
		root = fileConfig.Root()
		if fileConfig.Bench.LogLevel != "" {
			level, err := logger.ParseLevel(fileConfig.Bench.LogLevel)
			if err != nil {
				return cfg, nil, err
			}
			logger.Default.SetLevel(level)
		}
	case presetName != "":
		preset, ok := bench.GetPreset(presetName)
		if !ok {
			return cfg, nil, fmt.Errorf("不明なプリセット: %s (利用可能: %v)", presetName, bench.ListPresets())
		}
		cfg = preset
	}

	// フラグでオーバーライド
	if ratesFlag != "" {
		rates, err := parseRates(ratesFlag)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Rates = rates
	}
	if payloadSize > 0 {
		cfg.PayloadSize = payloadSize
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if noCharts {
		cfg.RenderCharts = false
	}
	if clientName != "" {
		selectedClient = clientName
	}
	if rootDir != "" {
		root = rootDir
	}

	var client storage.Client
	switch selectedClient {
	case config.ClientLocalFS:
		client = localfs.New(root)
	case config.ClientMem:
		client = memstore.New()
	default:
		return cfg, nil, fmt.Errorf("不明なクライアント: %s", selectedClient)
	}

	return cfg, client, nil
}

// parseRates はカンマ区切りのレートリストをパースする
func parseRates(s string) ([]int, error) {
	var rates []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rate, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("不正なレート: %q", part)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("レートは正の整数であること: %d", rate)
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("レートが指定されていません")
	}
	return rates, nil
}

// run はベンチマークを実行し、レポートを出力する
func run(cfg bench.Config, client storage.Client, serve bool, addr string) error {
	fmt.Println("iobench - Open-Loop KV Storage Latency Benchmark")
	fmt.Println("================================================")
	fmt.Printf("Rates:    %v\n", cfg.Rates)
	fmt.Printf("Duration: %v per campaign\n", cfg.Duration)
	fmt.Printf("Payload:  %d bytes\n", cfg.PayloadSize)
	fmt.Println("================================================")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n中断シグナルを受信、ベンチマークを終了中...")
		cancel()
	}()

	engine := bench.New(client, cfg)

	// モニタサーバー
	if serve {
		server := api.NewServer(addr, engine)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error("api", "モニタサーバーエラー: %v", err)
			}
		}()
	}

	results, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Print(result.Report())
	}

	return nil
}

// printPresets は利用可能なプリセットを表示する
func printPresets() {
	fmt.Println("利用可能なプリセット:")
	fmt.Println()

	presets := []struct {
		name string
		desc string
	}{
		{"quick", "短時間の動作確認（5s × 2レート）"},
		{"standard", "標準のレートラダー（30s × 10〜1000 qps）"},
		{"soak", "中レートの長時間実行（2m × 3レート）"},
	}

	for _, p := range presets {
		fmt.Printf("  %-12s %s\n", p.name, p.desc)
	}

	fmt.Println()
	fmt.Println("使用例: iobench --preset quick")
}
