package localfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"iobench/internal/logger"
	"iobench/internal/storage"

	"github.com/google/uuid"
)

// Ensure Client implements storage.Client
var _ storage.Client = (*Client)(nil)

// Client はローカルファイルシステム上のストレージクライアント
type Client struct {
	prefix string

	mu   sync.Mutex
	next uint64
}

// New は新しいClientを作成する
// root の下に実行ごとに一意な名前空間ディレクトリを使う
func New(root string) *Client {
	prefix := filepath.Join(root, "iobench-"+uuid.NewString())
	return &Client{prefix: prefix}
}

// Prefix は名前空間ディレクトリのパスを返す
func (c *Client) Prefix() string {
	return c.prefix
}

// Init は名前空間ディレクトリを作成する（冪等）
func (c *Client) Init() error {
	if err := os.MkdirAll(c.prefix, 0o755); err != nil {
		return fmt.Errorf("create prefix %s: %w", c.prefix, err)
	}
	logger.Info("localfs", "initialized (prefix: %s)", c.prefix)
	return nil
}

// GenUniqueKey は単調増加カウンタから一意なキーを生成する
func (c *Client) GenUniqueKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := filepath.Join(c.prefix, strconv.FormatUint(c.next, 10))
	c.next++
	return key
}

// Handler はステートレスなハンドラを返す
func (c *Client) Handler() storage.Handler {
	return handler{}
}

// handler はファイル単位の操作を行う
// 状態を持たないため任意のゴルーチンで共有できる
type handler struct{}

func (handler) Write(key, value string) error {
	if err := os.WriteFile(key, []byte(value), 0o644); err != nil {
		return storage.NewError("write", key, err)
	}
	return nil
}

func (handler) Read(key string) (string, error) {
	data, err := os.ReadFile(key)
	if err != nil {
		return "", storage.NewError("read", key, err)
	}
	return string(data), nil
}

func (handler) Delete(key string) error {
	if err := os.Remove(key); err != nil {
		return storage.NewError("delete", key, err)
	}
	return nil
}
