package bench

import "time"

// Config はベンチマークの設定
type Config struct {
	PayloadSize  int           // 書き込むペイロードのバイト数
	Rates        []int         // 目標レート（ops/sec）の列。この順に実行する
	Duration     time.Duration // 1キャンペーンの実行時間
	OutDir       string        // チャート画像の出力先
	RenderCharts bool          // チャート出力を有効化
	Progress     bool          // コンソールのプログレスバーを有効化
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return StandardPreset()
}

// QuickPreset は短時間の動作確認用プリセットを返す
func QuickPreset() Config {
	return Config{
		PayloadSize:  64,
		Rates:        []int{10, 50},
		Duration:     5 * time.Second,
		OutDir:       "/tmp/iobench-charts",
		RenderCharts: false,
		Progress:     true,
	}
}

// StandardPreset は標準のレートラダーを返す
func StandardPreset() Config {
	return Config{
		PayloadSize:  100,
		Rates:        []int{10, 20, 50, 100, 200, 500, 1000},
		Duration:     30 * time.Second,
		OutDir:       "/tmp/iobench-charts",
		RenderCharts: true,
		Progress:     true,
	}
}

// SoakPreset は中程度のレートで長時間流すプリセットを返す
func SoakPreset() Config {
	return Config{
		PayloadSize:  100,
		Rates:        []int{100, 200, 500},
		Duration:     2 * time.Minute,
		OutDir:       "/tmp/iobench-charts",
		RenderCharts: true,
		Progress:     true,
	}
}

// GetPreset は名前からプリセットを取得する
func GetPreset(name string) (Config, bool) {
	presets := map[string]func() Config{
		"quick":    QuickPreset,
		"standard": StandardPreset,
		"soak":     SoakPreset,
	}

	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"quick", "standard", "soak"}
}
