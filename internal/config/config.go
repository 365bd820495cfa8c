// internal/config/config.go
//
// Package config 由環境變數（與可選的 .env 檔）載入執行設定。
// 所有欄位皆有預設值，不設定任何環境變數即可直接執行。
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"cashit/internal/log"
)

const configDirEnv = "CASHIT_CONFIG_DIR"

// StorageDriver 選擇快照的持久化後端。
type StorageDriver string

const (
	DriverJSON   StorageDriver = "json"
	DriverSQLite StorageDriver = "sqlite"
)

// Config 為兩個執行檔（cmd/cashit、cmd/server）共用的設定。
type Config struct {
	Storage StorageConfig
	HTTP    HTTPConfig
	Log     log.Config
}

type StorageConfig struct {
	Driver     StorageDriver `env:"CASHIT_STORAGE_DRIVER" env-default:"json"`
	DataFile   string        `env:"CASHIT_DATA_FILE" env-default:"users.json"`
	SQLitePath string        `env:"CASHIT_SQLITE_PATH" env-default:"cashit.db"`
}

type HTTPConfig struct {
	Addr string `env:"CASHIT_HTTP_ADDR" env-default:":8080"`
}

// Load 先嘗試載入 $CASHIT_CONFIG_DIR/.env（不存在時略過），再讀取環境變數。
// 回傳的 bool 表示是否實際讀到 .env。
func Load() (*Config, bool, error) {
	dir := os.Getenv(configDirEnv)
	if dir == "" {
		dir = "."
	}
	loadedDotEnv := godotenv.Load(filepath.Join(dir, ".env")) == nil

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, loadedDotEnv, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, loadedDotEnv, err
	}
	return &cfg, loadedDotEnv, nil
}

// Validate 檢查列舉型欄位。
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("CASHIT_DATA_FILE must not be empty")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("CASHIT_SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("unsupported CASHIT_STORAGE_DRIVER %q (want json or sqlite)", c.Storage.Driver)
	}
	switch c.Log.Format {
	case "console", "json", "logfmt":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

// Location 回傳目前驅動使用的檔案路徑。
func (c StorageConfig) Location() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return c.DataFile
}
