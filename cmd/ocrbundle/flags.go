package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// cliFlags holds parsed command line flags.
type cliFlags struct {
	out            string
	title          string
	apiKey         string
	configPath     string
	model          string
	language       string
	excludeHeaders bool
	excludeFooters bool
	fromJSON       bool
	workers        int
	verbose        bool
	version        bool
}

// parseFlags parses args (excluding the program name) and returns the
// flags plus the positional input paths.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("ocrbundle", flag.ContinueOnError)

	f := &cliFlags{}
	fs.StringVarP(&f.out, "out", "o", "", "output archive path (default: input name with .zip)")
	fs.StringVar(&f.title, "title", "", "document title (default: input filename without extension)")
	fs.StringVar(&f.apiKey, "api-key", "", "OCR provider API key (overrides env and config)")
	fs.StringVar(&f.configPath, "config", "", "config file path")
	fs.StringVar(&f.model, "model", "", "OCR model override")
	fs.StringVar(&f.language, "language", "", "document language for EPUB metadata")
	fs.BoolVar(&f.excludeHeaders, "exclude-headers", false, "ask the OCR provider to drop page headers")
	fs.BoolVar(&f.excludeFooters, "exclude-footers", false, "ask the OCR provider to drop page footers")
	fs.BoolVar(&f.fromJSON, "from-json", false, "treat inputs as saved OCR result JSON, skip the OCR call")
	fs.IntVar(&f.workers, "workers", 0, "parallel conversions for multiple inputs (0 = number of CPUs)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	inputs := fs.Args()
	if !f.version && len(inputs) == 0 {
		return nil, nil, fmt.Errorf("usage: ocrbundle [flags] <input>...\n%s", fs.FlagUsages())
	}

	return f, inputs, nil
}
