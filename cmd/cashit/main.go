// cmd/cashit/main.go

// 終端機版本的 CASHIT。日誌預設寫入 cashit.log，避免與選單輸出交錯。

package main

import (
	"fmt"
	"os"

	"cashit/internal/bank"
	"cashit/internal/cli"
	"cashit/internal/config"
	"cashit/internal/log"
	"cashit/internal/storage"
)

const defaultLogFile = "cashit.log"

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %s\n", err.Error())
		os.Exit(1)
	}
	if _, ok := os.LookupEnv("LOG_OUTPUT"); !ok {
		cfg.Log.Output = defaultLogFile
	}
	zl := log.NewZapLogger(cfg.Log)
	defer zl.Sync()
	logger := zl.WithName("cashit")

	backend, err := storage.Open(string(cfg.Storage.Driver), cfg.Storage.Location())
	if err != nil {
		fmt.Printf("Failed to open storage: %s\n", err.Error())
		os.Exit(1)
	}

	store := bank.NewStore(backend, logger)
	switch store.Load() {
	case bank.LoadedSnapshot:
		fmt.Println("Previous accounts loaded successfully!")
	case bank.SeededFresh:
		fmt.Println("First time running - starting with default accounts.")
	case bank.SeededAfterCorruption:
		fmt.Println("Saved file corrupted or invalid. Starting with default accounts.")
	}

	ledger := bank.NewLedger(store, logger)
	in := cli.NewPromptInput(os.Stdout)
	restore := in.Restore()
	op := cli.NewOperator(in, os.Stdout, store, ledger,
		bank.NewSession(store, bank.PlainPIN{}, logger), bank.NewAdmin(store, ledger, logger), logger)

	runErr := op.Run()
	restore()
	if runErr != nil {
		logger.Error("terminal session ended with error", "error", runErr)
		fmt.Printf("Unexpected error: %s\n", runErr.Error())
	}
	if err := store.Close(); err != nil {
		fmt.Printf("Failed to save data: %s\n", err.Error())
		zl.Sync()
		os.Exit(1)
	}
}
