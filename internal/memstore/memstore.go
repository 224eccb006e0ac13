package memstore

import (
	"errors"
	"strconv"
	"sync"

	"iobench/internal/storage"
)

// ErrNotFound はキーが存在しないことを表す
var ErrNotFound = errors.New("key not found")

// Ensure Client implements storage.Client
var _ storage.Client = (*Client)(nil)

// Client はインメモリのストレージクライアント
type Client struct {
	mu   sync.RWMutex
	data map[string]string
	next uint64
}

// New は新しいClientを作成する
func New() *Client {
	return &Client{
		data: make(map[string]string),
	}
}

// Init は何もしない（冪等）
func (c *Client) Init() error {
	return nil
}

// GenUniqueKey は単調増加カウンタから一意なキーを生成する
func (c *Client) GenUniqueKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := "key-" + strconv.FormatUint(c.next, 10)
	c.next++
	return key
}

// Handler はストアを共有するハンドラを返す
func (c *Client) Handler() storage.Handler {
	return handler{store: c}
}

// Size は格納されているキー数を返す
func (c *Client) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// handler はマップへの操作を行う
// 可変状態はすべてストア側のRWMutexで保護される
type handler struct {
	store *Client
}

func (h handler) Write(key, value string) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	h.store.data[key] = value
	return nil
}

func (h handler) Read(key string) (string, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	value, ok := h.store.data[key]
	if !ok {
		return "", storage.NewError("read", key, ErrNotFound)
	}
	return value, nil
}

func (h handler) Delete(key string) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.data[key]; !ok {
		return storage.NewError("delete", key, ErrNotFound)
	}
	delete(h.store.data, key)
	return nil
}
