// internal/server/handler.go
//
// Package server 提供 HTTP RESTful 介面，作為 bank 模組的應用層。
// 每個 handler 僅負責：
//  1. 解析並驗證請求
//  2. 呼叫 Bank 執行商業邏輯
//  3. 以 writeJSON / writeErr 回傳標準化 JSON
//
// bank 不依賴 HTTP；server 依賴 bank。
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
	"ledger/internal/logger"
)

// Server 為 HTTP 層核心結構。
type Server struct {
	Bank        *bank.Bank
	log         *logger.Logger
	corsOrigins []string
}

// NewServer 建立 HTTP 伺服器；log 為 nil 時不輸出請求日誌。
func NewServer(b *bank.Bank, log *logger.Logger, corsOrigins []string) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{Bank: b, log: log.With("component", "http"), corsOrigins: corsOrigins}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// POST /accounts
// body: { "name": "Alice", "balance": "100" }
func (s *Server) createAccount(c *gin.Context) {
	var req struct {
		Name    string          `json:"name" binding:"required"`
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrCode(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	a, err := s.Bank.Create(req.Name, req.Balance)
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, a)
}

// GET /accounts
func (s *Server) listAccounts(c *gin.Context) {
	writeJSON(c, http.StatusOK, s.Bank.List())
}

// GET /accounts/:id
func (s *Server) getAccount(c *gin.Context) {
	a, err := s.Bank.Get(c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusOK, a)
}

// POST /accounts/:id/deposit
func (s *Server) deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrCode(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	a, err := s.Bank.Deposit(c.Param("id"), req.Amount)
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusOK, a)
}

// POST /accounts/:id/withdraw
func (s *Server) withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrCode(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	a, err := s.Bank.Withdraw(c.Param("id"), req.Amount)
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusOK, a)
}

// POST /transfers
// body: { "from": "<account id>", "to": "<account id>", "amount": "25" }
func (s *Server) transfer(c *gin.Context) {
	var req struct {
		From   string          `json:"from" binding:"required"`
		To     string          `json:"to" binding:"required"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrCode(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rc, err := s.Bank.Transfer(req.From, req.To, req.Amount)
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, rc)
}

// GET /transfers
func (s *Server) listTransfers(c *gin.Context) {
	writeJSON(c, http.StatusOK, s.Bank.Transfers())
}

// GET /transfers/:id
func (s *Server) getTransfer(c *gin.Context) {
	t, err := s.Bank.GetTransfer(c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// POST /transfers/:id/reverse
func (s *Server) reverse(c *gin.Context) {
	rc, err := s.Bank.Reverse(c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, rc)
}

// POST /rebalance
// body: { "min": "100" }
func (s *Server) rebalance(c *gin.Context) {
	var req struct {
		Min decimal.Decimal `json:"min"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrCode(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ts, err := s.Bank.Rebalance(req.Min)
	if err != nil {
		writeErr(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ts)
}

// GET /health
func (s *Server) health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
