package main

import (
	"github.com/strataviz/frameserve/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
