package main

import (
	"fmt"
	"os"

	"github.com/km-arc/go-ioc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "go-ioc:", err)
		os.Exit(1)
	}
}
