// cmd/server/main.go

// 本服務以 REST API 提供帳戶建立、存提款、轉帳、沖正與再平衡。
// 此檔案負責載入設定、初始化 logger 與 bank，並啟動 HTTP 伺服器；
// 收到 SIGINT/SIGTERM 時在逾時內優雅關閉。狀態僅存在記憶體中。
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"ledger/internal/bank"
	"ledger/internal/config"
	"ledger/internal/logger"
	"ledger/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	b := bank.NewBank(log)
	s := server.NewServer(b, log, cfg.CORSOrigins)
	srv := &http.Server{Addr: cfg.Addr, Handler: s.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("ledger server running", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
			return
		}
		log.Info("ledger server stopped", "total", b.Total().String())
	}
}
