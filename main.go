package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/thrushlang/thrushc-sub007/internal/compiler"
)

const version = "0.1.0"

func main() {
	debug := flag.Bool("d", false, "Enable debug output")
	showVersion := flag.Bool("v", false, "Show version")
	flag.BoolVar(debug, "debug", false, "Enable debug output")
	flag.BoolVar(showVersion, "version", false, "Show version")
	configPath := flag.String("config", "", "Path to thrush.yaml (default: next to the first file)")
	summary := flag.Bool("summary", false, "Print one line per checked file")
	code := flag.String("e", "", "Check an s-expression module given on the command line")

	flag.Parse()

	if *showVersion {
		fmt.Printf("thrushc semantic checker version %s\n", version)
		os.Exit(0)
	}

	files := flag.Args()
	if len(files) == 0 && *code == "" {
		fmt.Fprintln(os.Stderr, "Usage: thrushc [options] <file>...")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := compiler.Check(ctx, &compiler.Options{
		Files:      files,
		Code:       *code,
		ConfigPath: *configPath,
		Debug:      *debug,
		Summary:    *summary,
	})

	if !result.Success {
		stop()
		os.Exit(1)
	}
}
