// Command archive2dna is the encode/decode/corrupt driver, mirroring
// archive2dna's cli.py as a single Go binary with one subcommand per
// cli.py verb, each built from its own pflag.FlagSet in the flat
// pflag.*P style cmd/direwolf/main.go uses for its own option set.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/pflag"

	"github.com/jbkrause/archive2dna/internal/basepack"
	"github.com/jbkrause/archive2dna/internal/codec"
	"github.com/jbkrause/archive2dna/internal/config"
	"github.com/jbkrause/archive2dna/internal/corrupt"
	"github.com/jbkrause/archive2dna/internal/dnalog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "corrupt":
		err = runCorrupt(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "archive2dna: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "archive2dna: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "archive2dna - DNA archival encoder/decoder.\n\n")
	fmt.Fprintf(os.Stderr, "Usage: archive2dna <encode|decode|corrupt> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Run 'archive2dna <subcommand> -h' for subcommand options.\n")
}

func loadParams(configFile, section string) (config.Parameters, error) {
	return config.Load(configFile, section)
}

func runEncode(args []string) error {
	fs := pflag.NewFlagSet("encode", pflag.ExitOnError)
	inputFile := fs.StringP("input", "i", "", "Path to the binary payload to encode (required).")
	outputFile := fs.StringP("output", "o", "", "Path to write the DNA segments to, one per line (default stdout).")
	id := fs.StringP("id", "d", "", "Package identifier the primer is derived from.")
	configFile := fs.StringP("config-file", "c", "", "INI configuration file (default: built-in DEFAULT parameters).")
	section := fs.StringP("parameters", "p", "DEFAULT", "Named parameter section within the config file.")
	logLevel := fs.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: archive2dna encode -i <file> [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inputFile == "" {
		fs.Usage()
		return fmt.Errorf("encode: -i/--input is required")
	}

	log := dnalog.New(*logLevel)

	params, err := loadParams(*configFile, *section)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	c, err := codec.New(params)
	if err != nil {
		return fmt.Errorf("building codec: %w", err)
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	segments, stat, err := c.Encode(data, *id)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	for _, seg := range segments {
		fmt.Fprintln(out, seg)
	}

	log.Info("encode complete", "segments", len(segments), "id", *id)
	fmt.Fprintln(os.Stderr, stat.String())
	return nil
}

func runDecode(args []string) error {
	fs := pflag.NewFlagSet("decode", pflag.ExitOnError)
	inputFile := fs.StringP("input", "i", "", "Path to a file of DNA segments, one per line (required).")
	outputFile := fs.StringP("output", "o", "", "Path to write the recovered binary payload (default stdout).")
	id := fs.StringP("id", "d", "", "Package identifier the primer is derived from.")
	configFile := fs.StringP("config-file", "c", "", "INI configuration file (default: built-in DEFAULT parameters).")
	section := fs.StringP("parameters", "p", "DEFAULT", "Named parameter section within the config file.")
	logLevel := fs.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: archive2dna decode -i <file> [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inputFile == "" {
		fs.Usage()
		return fmt.Errorf("decode: -i/--input is required")
	}

	log := dnalog.New(*logLevel)

	params, err := loadParams(*configFile, *section)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	c, err := codec.New(params)
	if err != nil {
		return fmt.Errorf("building codec: %w", err)
	}

	segments, err := readLines(*inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	payload, stat, err := c.Decode(segments, *id)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(payload); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Info("decode complete", "bytes", len(payload), "inner_corrections", stat.InnerCorrections, "outer_corrections", stat.OuterCorrections)
	fmt.Fprintln(os.Stderr, stat.String())
	return nil
}

func runCorrupt(args []string) error {
	fs := pflag.NewFlagSet("corrupt", pflag.ExitOnError)
	inputFile := fs.StringP("input", "i", "", "Path to a file of DNA segments, one per line (required).")
	outputFile := fs.StringP("output", "o", "", "Path to write the corrupted segments (default stdout).")
	errorRate := fs.Float64P("error-rate", "e", 0.01, "Independent per-base substitution probability.")
	seed := fs.Int64P("seed", "s", 1, "PRNG seed, for reproducible corruption runs.")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: archive2dna corrupt -i <file> [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inputFile == "" {
		fs.Usage()
		return fmt.Errorf("corrupt: -i/--input is required")
	}

	segments, err := readLines(*inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	corrupted, res := corrupt.Segments(segments, *errorRate, rng)

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	for _, seg := range corrupted {
		fmt.Fprintln(out, seg)
	}

	fmt.Fprintf(os.Stderr, "corrupted %d/%d segments, %d bases flipped\n",
		res.SegmentsCorrupted, len(segments), res.BasesFlipped)
	return nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			if i > start {
				line := basepack.StripDNAText(string(data[start:i]))
				if line != "" {
					lines = append(lines, line)
				}
			}
			start = i + 1
		}
	}
	return lines, nil
}
