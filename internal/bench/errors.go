package bench

import "fmt"

// ViolationError はバックエンドの整合性違反を表す
// 読み出し値の不一致や、削除後のReadが成功した場合など、
// バックエンドがKVストアとして振る舞っていないことを示す
type ViolationError struct {
	Op     string // 違反を検出した操作
	Key    string // 対象キー
	Reason string // 何が期待と違ったか
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("correctness violation in %s %s: %s", e.Op, e.Key, e.Reason)
}
