package bench

// Progress はエンジンの進捗スナップショット
// モニタサーバが定期的に読み出してクライアントへ配信する
type Progress struct {
	Running   bool   `json:"running"`
	Campaign  int    `json:"campaign"`  // 0始まりのキャンペーン番号
	Campaigns int    `json:"campaigns"` // キャンペーン総数
	Rate      int    `json:"rate"`      // 現在の目標レート
	Scheduled uint64 `json:"scheduled"` // ディスパッチ済みシーケンス数
	Completed uint64 `json:"completed"` // 完了したシーケンス数
	Missed    uint64 `json:"missed"`    // missed deadline数
	Total     uint64 `json:"total"`     // このキャンペーンの総数
}

// Progress は現在の進捗スナップショットを返す
// どのゴルーチンから呼んでもよい
func (e *Engine) Progress() Progress {
	return Progress{
		Running:   e.active.Load(),
		Campaign:  int(e.campaign.Load()),
		Campaigns: len(e.config.Rates),
		Rate:      int(e.rate.Load()),
		Scheduled: e.scheduled.Load(),
		Completed: e.completed.Load(),
		Missed:    e.missed.Load(),
		Total:     e.total.Load(),
	}
}
