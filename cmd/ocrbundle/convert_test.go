package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ocrbundle "github.com/halvar/go-ocrbundle"
	"github.com/halvar/go-ocrbundle/internal/config"
	"github.com/halvar/go-ocrbundle/internal/ocrclient"
)

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		inputPath string
		out       string
		multi     bool
		want      string
	}{
		{
			name:      "default next to input",
			inputPath: filepath.Join("docs", "scan.pdf"),
			want:      filepath.Join("docs", "scan.zip"),
		},
		{
			name:      "explicit zip path for single input",
			inputPath: "scan.pdf",
			out:       filepath.Join("out", "result.zip"),
			want:      filepath.Join("out", "result.zip"),
		},
		{
			name:      "directory out for single input",
			inputPath: "scan.pdf",
			out:       "outdir",
			want:      filepath.Join("outdir", "scan.zip"),
		},
		{
			name:      "zip-suffixed out treated as dir for multiple inputs",
			inputPath: "scan.pdf",
			out:       "batch.zip",
			multi:     true,
			want:      filepath.Join("batch.zip", "scan.zip"),
		},
		{
			name:      "json input stem reused",
			inputPath: "saved.json",
			want:      "saved.zip",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveOutputPath(tt.inputPath, tt.out, tt.multi)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNeedsClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flags  cliFlags
		inputs []string
		want   bool
	}{
		{"pdf input needs client", cliFlags{}, []string{"scan.pdf"}, true},
		{"json input skips client", cliFlags{}, []string{"saved.json"}, false},
		{"uppercase json extension skips client", cliFlags{}, []string{"SAVED.JSON"}, false},
		{"from-json forces skip", cliFlags{fromJSON: true}, []string{"scan.pdf"}, false},
		{"mixed inputs need client", cliFlags{}, []string{"saved.json", "scan.pdf"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := needsClient(&tt.flags, tt.inputs); got != tt.want {
				t.Errorf("needsClient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   cliFlags
		env     string
		cfg     config.Config
		wantKey string
	}{
		{
			name:    "flag beats env and config",
			flags:   cliFlags{apiKey: "from-flag"},
			env:     "from-env",
			cfg:     config.Config{APIKey: "from-config"},
			wantKey: "from-flag",
		},
		{
			name:    "env beats config",
			env:     "from-env",
			cfg:     config.Config{APIKey: "from-config"},
			wantKey: "from-env",
		},
		{
			name:    "config used last",
			cfg:     config.Config{APIKey: "from-config"},
			wantKey: "from-config",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(apiKeyEnv, tt.env)
			cfg := tt.cfg
			mergeFlags(&tt.flags, &cfg)
			if cfg.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", cfg.APIKey, tt.wantKey)
			}
		})
	}
}

func TestLoadOCRResultFromJSON(t *testing.T) {
	t.Parallel()

	result := ocrbundle.OCRResult{Pages: []ocrbundle.Page{
		{Index: 0, Markdown: "# Saved"},
	}}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "saved.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadOCRResult(context.Background(), nil, path, &cliFlags{})
	if err != nil {
		t.Fatalf("loadOCRResult() error: %v", err)
	}
	if len(got.Pages) != 1 || got.Pages[0].Markdown != "# Saved" {
		t.Errorf("loadOCRResult() = %+v", got)
	}
}

func TestLoadOCRResultErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadOCRResult(context.Background(), nil, filepath.Join(t.TempDir(), "absent.json"), &cliFlags{})
		if !errors.Is(err, ErrReadInput) {
			t.Errorf("error = %v, want ErrReadInput", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := loadOCRResult(context.Background(), nil, path, &cliFlags{})
		if !errors.Is(err, ErrParseResult) {
			t.Errorf("error = %v, want ErrParseResult", err)
		}
	})
}

func TestResponseToResult(t *testing.T) {
	t.Parallel()

	resp := &ocrclient.Response{
		Pages: []ocrclient.Page{
			{
				Index:    0,
				Markdown: "# Page",
				Tables:   []ocrclient.Table{{ID: "t", Content: "c"}},
				Images:   []ocrclient.Image{{ID: "i.png", ImageBase64: "AAAA"}},
			},
		},
	}

	got := responseToResult(resp)
	if len(got.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(got.Pages))
	}
	page := got.Pages[0]
	if page.Markdown != "# Page" {
		t.Errorf("markdown = %q", page.Markdown)
	}
	if len(page.Tables) != 1 || page.Tables[0].ID != "t" {
		t.Errorf("tables = %+v", page.Tables)
	}
	if len(page.Images) != 1 || page.Images[0].ImageBase64 != "AAAA" {
		t.Errorf("images = %+v", page.Images)
	}
}

func TestConvertFileFromJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result := ocrbundle.OCRResult{Pages: []ocrbundle.Page{
		{
			Index:    0,
			Markdown: "# Doc\n\n![f](img.png)",
			Images: []ocrbundle.ImageRef{
				{ID: "img.png", ImageBase64: base64.StdEncoding.EncodeToString([]byte("png"))},
			},
		},
	}}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}

	inPath := filepath.Join(dir, "saved.json")
	if err := os.WriteFile(inPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out", "saved.zip")

	res := convertFile(context.Background(), ocrbundle.NewConverter(), nil,
		FileToConvert{InputPath: inPath, OutputPath: outPath}, &cliFlags{})
	if res.Err != nil {
		t.Fatalf("convertFile() error: %v", res.Err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("output archive not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output archive is empty")
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		flagWorkers int
		jobs        int
		want        int
	}{
		{"explicit flag honored", 4, 10, 4},
		{"bounded by job count", 8, 2, 2},
		{"at least one worker", 1, 0, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveWorkers(tt.flagWorkers, tt.jobs); got != tt.want {
				t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flagWorkers, tt.jobs, got, tt.want)
			}
		})
	}
}

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data, err := json.Marshal(ocrbundle.OCRResult{Pages: []ocrbundle.Page{
		{Index: 0, Markdown: "# Batch"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	var files []FileToConvert
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		name := name
		inPath := filepath.Join(dir, name)
		if err := os.WriteFile(inPath, data, 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, FileToConvert{
			InputPath:  inPath,
			OutputPath: resolveOutputPath(inPath, "", true),
		})
	}

	results := convertBatch(context.Background(), ocrbundle.NewConverter(), nil, files, &cliFlags{}, 2)
	if len(results) != len(files) {
		t.Fatalf("results = %d, want %d", len(results), len(files))
	}
	for _, r := range results {
		r := r
		if r.Err != nil {
			t.Errorf("conversion of %s failed: %v", r.InputPath, r.Err)
		}
		if _, err := os.Stat(r.OutputPath); err != nil {
			t.Errorf("output %s missing: %v", r.OutputPath, err)
		}
	}
}
