package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"flaresentinel/internal/detection"
	"flaresentinel/internal/imaging"
	"flaresentinel/internal/types"
)

// ClassifyReport is the per-file output of the classify command.
type ClassifyReport struct {
	File          string             `json:"file"`
	Format        string             `json:"format,omitempty"`
	Width         int                `json:"width,omitempty"`
	Height        int                `json:"height,omitempty"`
	Status        types.SafetyStatus `json:"status,omitempty"`
	Confidence    float64            `json:"confidence"`
	FireFraction  float64            `json:"fire_fraction"`
	SmokeFraction float64            `json:"smoke_fraction"`
	Error         string             `json:"error,omitempty"`
}

type classifyOptions struct {
	maxPixels int
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Classify image files without starting the server",
		Long: `Run the flame/smoke classifier over image files.

Each file may hold raw image bytes (PNG, JPEG, GIF, BMP, TIFF, WebP) or a
base64 data URL as posted to /detect. Files that fail to decode are reported
and the command exits non-zero after processing the rest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.OutOrStdout(), rootOpts.Format, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.maxPixels, "max-pixels", imaging.DefaultMaxPixels, "reject images with more pixels than this")

	return cmd
}

func runClassify(w io.Writer, format string, opts *classifyOptions, files []string) error {
	decoder := imaging.NewDecoder(opts.maxPixels)
	classifier := detection.NewClassifier()

	reports := make([]ClassifyReport, 0, len(files))
	failed := 0
	for _, file := range files {
		report := classifyFile(decoder, classifier, file)
		if report.Error != "" {
			failed++
		}
		reports = append(reports, report)
	}

	if err := writeReports(w, format, reports); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be classified", failed, len(files))
	}
	return nil
}

func classifyFile(decoder *imaging.Decoder, classifier *detection.Classifier, file string) ClassifyReport {
	report := ClassifyReport{File: file}

	data, err := os.ReadFile(file)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	var frame *imaging.Frame
	if trimmed := bytes.TrimSpace(data); bytes.HasPrefix(trimmed, []byte("data:")) {
		frame, err = decoder.DecodeDataURL(string(trimmed))
	} else {
		frame, err = decoder.Decode(data)
	}
	if err != nil {
		report.Error = err.Error()
		return report
	}

	analysis := classifier.Analyze(frame.Bitmap)
	result := analysis.Result()

	report.Format = frame.Format
	report.Width = frame.Bitmap.Width
	report.Height = frame.Bitmap.Height
	report.Status = result.Status
	report.Confidence = result.Confidence
	report.FireFraction = analysis.FireFraction
	report.SmokeFraction = analysis.SmokeFraction
	return report
}

func writeReports(w io.Writer, format string, reports []ClassifyReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: error: %s\n", r.File, r.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s confidence=%.4f fire=%.4f smoke=%.4f (%s %dx%d)\n",
			r.File, r.Status, r.Confidence, r.FireFraction, r.SmokeFraction, r.Format, r.Width, r.Height,
		); err != nil {
			return err
		}
	}
	return nil
}
