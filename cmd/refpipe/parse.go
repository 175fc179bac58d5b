package refpipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uet-datalab/refpipe/pkg/config"
	"github.com/uet-datalab/refpipe/pkg/docparse"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a .docx document into a reference corpus file",
	Long: `Parse a Word document into one of the JSON corpus layouts.

The default chunks layout splits text into fixed-size pieces for
retrieval. With --format legal the chapter/article/clause structure of
Vietnamese legal documents is recovered instead. Tables become LaTeX
tabular blocks in both layouts.`,
	RunE: runParse,
}

var (
	parseInput     string
	parseOutput    string
	parseChunkSize int
	parseFormat    string
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseInput, "input", "", "Input .docx file (required)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "", "Output .json file (default: input with .json extension)")
	parseCmd.Flags().IntVar(&parseChunkSize, "chunk-size", docparse.DefaultChunkSize, "Maximum chunk size in characters (chunks format)")
	parseCmd.Flags().StringVar(&parseFormat, "format", "chunks", "Output layout: chunks or legal")
	parseCmd.MarkFlagRequired("input")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	output := parseOutput
	if output == "" {
		output = strings.TrimSuffix(parseInput, filepath.Ext(parseInput)) + ".json"
	}

	elements, err := docparse.ReadDocx(parseInput)
	if err != nil {
		return err
	}
	log.Info("document loaded", "file", parseInput, "elements", len(elements))

	var result any
	switch parseFormat {
	case "legal":
		doc := docparse.ParseLegal(elements, parseInput)
		articles := 0
		for _, ch := range doc.Chapters {
			articles += len(ch.Articles)
		}
		log.Info("legal structure parsed", "chapters", len(doc.Chapters), "articles", articles)
		result = doc
	case "chunks":
		doc := docparse.BuildRAGDocument(elements, parseInput, parseChunkSize)
		log.Info("document chunked", "chunks", len(doc.Chunks))
		result = doc
	default:
		return fmt.Errorf("unknown format %q: want chunks or legal", parseFormat)
	}

	if err := writeJSON(output, result); err != nil {
		return err
	}
	log.Info("corpus file saved", "file", output)
	return nil
}

// writeJSON writes indented JSON without HTML escaping so Vietnamese text
// stays readable.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
