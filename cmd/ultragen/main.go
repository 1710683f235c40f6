package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tinyrange/ultra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ultragen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	manifestPath := flag.String("manifest", "bootctx.yaml", "Boot context manifest to read")
	outPath := flag.String("o", "bootctx.bin", "Output boot context image")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Build an Ultra boot context image from a YAML manifest.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	m, err := LoadManifest(*manifestPath)
	if err != nil {
		return err
	}
	buf, err := m.Build()
	if err != nil {
		return err
	}

	// Decode what we just built; a manifest must never produce an image the
	// kernel side would reject.
	ctx, err := ultra.Decode(buf, ultra.Magic)
	if err != nil {
		return fmt.Errorf("self-check: %w", err)
	}
	slog.Debug("built boot context",
		"bytes", len(buf),
		"attributes", len(ctx.Attributes),
		"protocol", fmt.Sprintf("%d.%d", ctx.ProtocolMajor, ctx.ProtocolMinor))

	if err := os.WriteFile(*outPath, buf, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes, %d attributes)\n", *outPath, len(buf), len(ctx.Attributes))
	return nil
}
