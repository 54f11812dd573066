package main

import (
	"github.com/roomforge/roomforge-go/internal/cli"
)

func main() {
	cli.Execute()
}
