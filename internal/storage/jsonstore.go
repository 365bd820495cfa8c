// internal/storage/jsonstore.go
//
// JSON 快照後端：整份帳戶對照表以縮排 JSON 寫入單一文字檔。
// 寫入採「暫存檔 + rename」：先寫 path.tmp，再以 os.Rename 取代正式檔。
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

const jsonStorageName = "json_snapshot"

// JSONFile 以固定路徑保存快照。
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Path() string { return j.path }

// Load 讀取快照。檔案不存在回傳 ErrNoSnapshot；內容無法解析回傳 ErrCorrupt。
func (j *JSONFile) Load() (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, fmt.Errorf("%w: %s", ErrNoSnapshot, j.path)
	}
	if err != nil {
		return snap, fmt.Errorf("%w: read %s: %v", ErrCorrupt, j.path, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, j.path, err)
	}
	if snap.Accounts == nil {
		return snap, fmt.Errorf("%w: %s has no accounts section", ErrCorrupt, j.path)
	}
	return snap, nil
}

// Save 覆寫快照。中途失敗時原檔保持不變。
func (j *JSONFile) Save(snap Snapshot) error {
	snap.Meta.Storage = jsonStorageName
	snap.Meta.Version = SchemaVersion
	snap.Meta.Timestamp = time.Now().UTC()
	tmp := j.path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	// 縮排輸出，方便人工檢視
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, j.path)
}

func (j *JSONFile) Close() error { return nil }
