// internal/storage/backend.go
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSnapshot 表示尚未有任何快照（首次執行）。
	ErrNoSnapshot = errors.New("no snapshot")
	// ErrCorrupt 表示快照存在但無法解析。
	ErrCorrupt = errors.New("snapshot corrupted")
)

// Backend 為快照的持久化後端。bank.Store 透過此介面讀寫，可替換為其他實作。
type Backend interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
	Close() error
}

// Open 依驅動名稱建立後端；json 使用 location 作為檔案路徑，sqlite 作為資料庫路徑。
func Open(driver, location string) (Backend, error) {
	switch driver {
	case "json":
		return NewJSONFile(location), nil
	case "sqlite":
		return NewSQLite(location)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
