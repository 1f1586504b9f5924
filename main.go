package main

import (
	"os"

	"github.com/systerlang/systerview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
