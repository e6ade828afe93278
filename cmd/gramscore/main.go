package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(context.Background())
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "gramscore: %v\n", err)
	}
	os.Exit(1)
}
