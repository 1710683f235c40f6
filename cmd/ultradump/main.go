package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/tinyrange/ultra"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ultradump: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	magicFlag := flag.String("magic", fmt.Sprintf("%#x", ultra.Magic), "Magic value the loader reported")
	noColor := flag.Bool("no-color", false, "Disable color output")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <boot context image>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decode an Ultra boot context image and print every attribute.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("boot context image required")
	}

	magic, err := strconv.ParseUint(*magicFlag, 0, 32)
	if err != nil {
		return fmt.Errorf("parse magic %q: %w", *magicFlag, err)
	}

	buf, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return err
	}
	slog.Debug("read boot context image", "path", flag.Arg(0), "bytes", len(buf))

	d, err := ultra.Open(buf, uint32(magic))
	if err != nil {
		return err
	}

	st := styler{enabled: !*noColor && term.IsTerminal(int(os.Stdout.Fd()))}
	major, minor := d.Version()
	fmt.Printf("%s %d.%d, %d attributes, %d bytes\n",
		st.bold("ultra boot context"), major, minor, d.Count(), len(buf))

	for i := 0; ; i++ {
		attr, err := d.Next()
		if err != nil {
			return err
		}
		if attr == nil {
			return nil
		}
		fmt.Printf("\n[%d] %s\n", i, st.accent(attr.Kind().String()))
		printAttribute(attr, st)
	}
}
