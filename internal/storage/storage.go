package storage

import "fmt"

// Client はベンチマーク対象ストレージのクライアントを表す
//
// GenUniqueKey は呼び出しごとに一意なキーを返す必要があり、
// 実装側で排他制御する。Init は冪等であること。
type Client interface {
	// Init は一度きりのセットアップを行う（冪等）
	Init() error

	// GenUniqueKey はこのインスタンス内で一意なキーを生成する
	GenUniqueKey() string

	// Handler はステートレスな操作ハンドラを返す
	// 返されたハンドラは複数のゴルーチンで共有してよい
	Handler() Handler
}

// Handler はストレージへの個々の操作を表す
//
// 削除に成功したキーの Read は必ず失敗しなければならない。
// これは副作用ではなく整合性の検証に使われる。
type Handler interface {
	Write(key, value string) error
	Read(key string) (string, error)
	Delete(key string) error
}

// Error はバックエンド操作の失敗を表す
type Error struct {
	Op    string // 操作名（write / read / delete など）
	Key   string // 対象キー
	Cause error  // 元のエラー
}

// NewError は新しいErrorを作成する
func NewError(op, key string, cause error) *Error {
	return &Error{Op: op, Key: key, Cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Cause)
}

// Unwrap は元のエラーを返す
func (e *Error) Unwrap() error {
	return e.Cause
}
