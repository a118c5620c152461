package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ocrbundle "github.com/halvar/go-ocrbundle"
	"github.com/halvar/go-ocrbundle/internal/config"
	"github.com/halvar/go-ocrbundle/internal/ocrclient"
)

// Sentinel errors for CLI operations.
var (
	ErrReadInput     = errors.New("failed to read input file")
	ErrParseResult   = errors.New("failed to parse OCR result JSON")
	ErrWriteBundle   = errors.New("failed to write bundle archive")
	ErrMissingAPIKey = errors.New("no API key: set --api-key, OCRBUNDLE_API_KEY, or the config file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// apiKeyEnv is the environment variable consulted when --api-key is not set.
const apiKeyEnv = "OCRBUNDLE_API_KEY"

// FileToConvert represents a single input to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// ocrProcessor abstracts the OCR client for testability.
type ocrProcessor interface {
	Process(ctx context.Context, document []byte, fileName string, opts ocrclient.ProcessOptions) (*ocrclient.Response, error)
}

// Compile-time interface implementation check.
var _ ocrProcessor = (*ocrclient.Client)(nil)

// run orchestrates the full CLI flow: config, OCR, conversion, archive output.
func run(ctx context.Context, flags *cliFlags, inputs []string) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, &cfg)

	var opts []ocrbundle.Option
	if cfg.Language != "" {
		opts = append(opts, ocrbundle.WithLanguage(cfg.Language))
	}
	if cfg.Creator != "" {
		opts = append(opts, ocrbundle.WithCreator(cfg.Creator))
	}
	converter := ocrbundle.NewConverter(opts...)

	// The OCR client is only needed when inputs are raw documents.
	var client ocrProcessor
	if needsClient(flags, inputs) {
		if cfg.APIKey == "" {
			return ErrMissingAPIKey
		}
		client = ocrclient.New(ocrclient.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   flags.model,
		})
	}

	files := resolveFiles(inputs, flags.out)

	workers := resolveWorkers(flags.workers, len(files))
	results := convertBatch(ctx, converter, client, files, flags, workers)

	failed := printResults(results, flags.verbose)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", failed)
	}
	return nil
}

// loadConfig loads the config file, tolerating its absence.
func loadConfig(path string) (config.Config, error) {
	provider, err := config.NewFileProvider(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := provider.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.Config{}, nil
		}
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values,
// and the environment sits between the two for the API key.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if key := os.Getenv(apiKeyEnv); key != "" {
		cfg.APIKey = key
	}
	if flags.apiKey != "" {
		cfg.APIKey = flags.apiKey
	}
	if flags.language != "" {
		cfg.Language = flags.language
	}
}

// needsClient reports whether any input requires an OCR API call.
func needsClient(flags *cliFlags, inputs []string) bool {
	if flags.fromJSON {
		return false
	}
	for _, in := range inputs {
		if !strings.EqualFold(filepath.Ext(in), ".json") {
			return true
		}
	}
	return false
}

// resolveFiles pairs each input with its output archive path.
// A single input honors --out verbatim; with multiple inputs --out is
// treated as a directory.
func resolveFiles(inputs []string, out string) []FileToConvert {
	files := make([]FileToConvert, len(inputs))
	for i, in := range inputs {
		files[i] = FileToConvert{
			InputPath:  in,
			OutputPath: resolveOutputPath(in, out, len(inputs) > 1),
		}
	}
	return files
}

// resolveOutputPath determines the archive output path for an input file.
func resolveOutputPath(inputPath, out string, multi bool) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if out == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".zip")
	}
	if multi || !strings.HasSuffix(out, ".zip") {
		return filepath.Join(out, base+".zip")
	}
	return out
}

// resolveWorkers bounds the worker count by the number of inputs.
func resolveWorkers(flagWorkers, jobs int) int {
	n := resolvePoolSize(flagWorkers)
	if n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// convertBatch processes inputs concurrently with a bounded worker pool.
func convertBatch(ctx context.Context, converter *ocrbundle.Converter, client ocrProcessor, files []FileToConvert, flags *cliFlags, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, converter, client, files[idx], flags)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single input and writes its bundle archive.
func convertFile(ctx context.Context, converter *ocrbundle.Converter, client ocrProcessor, f FileToConvert, flags *cliFlags) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	ocrResult, err := loadOCRResult(ctx, client, f.InputPath, flags)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	converted, err := converter.Convert(ctx, ocrbundle.Input{
		Result:     ocrResult,
		SourceName: filepath.Base(f.InputPath),
		Title:      flags.title,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if dir := filepath.Dir(f.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			result.Err = fmt.Errorf("creating output directory: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	}

	// #nosec G306 -- bundle archives are meant to be readable
	if err := os.WriteFile(f.OutputPath, converted.Bundle, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteBundle, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// loadOCRResult obtains an OCR result for an input, either by parsing a
// saved JSON result or by sending the document to the OCR API.
func loadOCRResult(ctx context.Context, client ocrProcessor, path string, flags *cliFlags) (ocrbundle.OCRResult, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return ocrbundle.OCRResult{}, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	if flags.fromJSON || strings.EqualFold(filepath.Ext(path), ".json") {
		var result ocrbundle.OCRResult
		if err := json.Unmarshal(content, &result); err != nil {
			return ocrbundle.OCRResult{}, fmt.Errorf("%w: %v", ErrParseResult, err)
		}
		return result, nil
	}

	resp, err := client.Process(ctx, content, filepath.Base(path), ocrclient.ProcessOptions{
		ExcludeHeaders: flags.excludeHeaders,
		ExcludeFooters: flags.excludeFooters,
	})
	if err != nil {
		return ocrbundle.OCRResult{}, err
	}
	return responseToResult(resp), nil
}

// responseToResult converts an OCR API response into the library input type.
func responseToResult(resp *ocrclient.Response) ocrbundle.OCRResult {
	result := ocrbundle.OCRResult{
		Pages: make([]ocrbundle.Page, len(resp.Pages)),
	}
	for i, p := range resp.Pages {
		page := ocrbundle.Page{
			Index:    p.Index,
			Markdown: p.Markdown,
		}
		for _, t := range p.Tables {
			page.Tables = append(page.Tables, ocrbundle.TableRef{ID: t.ID, Content: t.Content})
		}
		for _, img := range p.Images {
			page.Images = append(page.Images, ocrbundle.ImageRef{ID: img.ID, ImageBase64: img.ImageBase64})
		}
		result.Pages[i] = page
	}
	return result
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, verbose bool) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if verbose {
			fmt.Printf("%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Printf("Created %s\n", r.OutputPath)
		}
	}

	if len(results) > 1 {
		fmt.Printf("\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
