package main

import (
	"flag"
	"fmt"
	"os"

	"avatard/internal/di"
	"avatard/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug mode")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "avatard: %s\n", err)
		os.Exit(1)
	}
}
