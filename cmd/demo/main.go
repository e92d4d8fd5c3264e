// cmd/demo/main.go

// 示範程式：建立 Alice 與 Bob 兩個帳戶，轉帳後再沖正，並列印每一步的狀態。
package main

import (
	"fmt"
	"os"

	"ledger/internal/demo"
)

func main() {
	if err := demo.Run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
		os.Exit(1)
	}
}
