package main

import "github.com/goplus/xmakegen/cmd/xmakegen/internal"

func main() {
	internal.Execute()
}
