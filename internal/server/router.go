// internal/server/router.go
//
// 本檔負責 HTTP 路由與中介層註冊。
// 所有端點同時掛在根路徑與 /api/v1 下；未來新增 /api/v2 只需再呼叫一次 mount。
package server

import (
	"github.com/gin-gonic/gin"
)

// Router 建立並回傳整個 HTTP 處理鏈。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(corsMiddleware(s.corsOrigins))

	s.mount(r.Group("/api/v1"))
	s.mount(&r.RouterGroup)
	return r
}

func (s *Server) mount(g *gin.RouterGroup) {
	g.GET("/health", s.health)

	g.POST("/accounts", s.createAccount)
	g.GET("/accounts", s.listAccounts)
	g.GET("/accounts/:id", s.getAccount)
	g.POST("/accounts/:id/deposit", s.deposit)
	g.POST("/accounts/:id/withdraw", s.withdraw)

	g.POST("/transfers", s.transfer)
	g.GET("/transfers", s.listTransfers)
	g.GET("/transfers/:id", s.getTransfer)
	g.POST("/transfers/:id/reverse", s.reverse)

	g.POST("/rebalance", s.rebalance)
}
