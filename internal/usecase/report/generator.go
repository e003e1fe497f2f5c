// Package report は変換結果の出力機能を提供します
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ImageSweep/internal/domain/model"
)

const (
	OutputFilePrefix = "sweep_"
	OutputFileSuffix = ".txt"
	TimestampLayout  = "20060102_150405"
)

// Printer は1ファイルごとの結果をコンソール向けに1行で出力します
type Printer struct {
	writer     io.Writer
	targetName string
}

// NewPrinter は新しい Printer を作成します。targetName は変換先フォーマットの表示名（例: WebP）です
func NewPrinter(writer io.Writer, targetName string) *Printer {
	if writer == nil {
		writer = os.Stdout
	}
	return &Printer{writer: writer, targetName: targetName}
}

// Print は結果を1行出力します
func (p *Printer) Print(result model.ConversionResult) {
	fmt.Fprintln(p.writer, Line(result, p.targetName))
}

// Line は結果に対応するコンソール行を返します
func Line(result model.ConversionResult, targetName string) string {
	name := result.Source.Name()
	switch result.Outcome {
	case model.OutcomeConverted:
		return fmt.Sprintf("Converted %s", name)
	case model.OutcomeSkipped:
		return fmt.Sprintf("Skipping %s, %s already exists", name, targetName)
	default:
		return fmt.Sprintf("Failed to convert %s: %v", name, result.Err)
	}
}

// Summary は結果の件数集計です
type Summary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total は処理したファイル数を返します
func (s Summary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d converted, %d skipped, %d failed", s.Converted, s.Skipped, s.Failed)
}

// Summarize は結果を種類ごとに数えます
func Summarize(results []model.ConversionResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case model.OutcomeConverted:
			s.Converted++
		case model.OutcomeSkipped:
			s.Skipped++
		case model.OutcomeFailed:
			s.Failed++
		}
	}
	return s
}

// Generator はレポートファイルの生成機能を提供します
type Generator struct {
	now func() time.Time
}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// CreateOutputFile は出力ファイルを作成します
func (g *Generator) CreateOutputFile(outputDir string) (*os.File, string, error) {
	timestamp := g.now().Format(TimestampLayout)
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s%s%s", OutputFilePrefix, timestamp, OutputFileSuffix))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("create report file: %w", err)
	}

	return outputFile, outputPath, nil
}

// WriteResults は結果を深さに応じてインデントし、種類（[CONVERTED] など）付きで一覧出力します
func (g *Generator) WriteResults(writer io.Writer, root string, results []model.ConversionResult) {
	fmt.Fprintf(writer, "===== %s =====\n", root)

	for _, r := range results {
		indent := strings.Repeat("  ", r.Source.Depth)
		tag := "[" + strings.ToUpper(r.Outcome.String()) + "]"
		fmt.Fprintf(writer, "%s%-11s %s", indent, tag, r.Source.RelPath)
		if r.Outcome == model.OutcomeFailed && r.Err != nil {
			fmt.Fprintf(writer, " (%v)", r.Err)
		}
		fmt.Fprintln(writer)
	}

	fmt.Fprintf(writer, "\n===== %s =====\n", Summarize(results))
}
