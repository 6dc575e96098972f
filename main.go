package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/blogseo/blogseo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
