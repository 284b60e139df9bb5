package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seung-gu/factset-data-collector/internal/classifier"
	"github.com/seung-gu/factset-data-collector/internal/matcher"
	"github.com/seung-gu/factset-data-collector/internal/ocr"
	"github.com/seung-gu/factset-data-collector/internal/utils"
)

// imageCmd represents the image command for inspecting a single chart.
var imageCmd = &cobra.Command{
	Use:   "image [file]",
	Short: "Inspect quarter/EPS extraction for a single chart image",
	Long: `Run the extraction pipeline on one chart image and print every
matched quarter/EPS pair with its bar classification. Useful for tuning
tolerances and debugging misreads.

The image needs a text-box sidecar (image.boxes.json) holding its OCR output.

Examples:
  chartocr image charts/20161209-6.png
  chartocr image charts/20161209-6.png --format json
  chartocr image charts/20161209-6.png --no-classify`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runImageCommand,
}

// imageReading is the per-pair inspection output.
type imageReading struct {
	Quarter    string            `json:"quarter"`
	EPS        float64           `json:"eps"`
	Distance   float64           `json:"distance"`
	Shade      string            `json:"shade,omitempty"`
	Confidence string            `json:"confidence,omitempty"`
	Votes      map[string]int    `json:"votes,omitempty"`
	Methods    map[string]string `json:"methods,omitempty"`
}

func runImageCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	imagePath := args[0]

	format, _ := cmd.Flags().GetString("format")
	noClassify, _ := cmd.Flags().GetBool("no-classify")
	if singleMethod, _ := cmd.Flags().GetBool("single-method"); singleMethod {
		cfg.Classifier.SingleMethod = true
	}

	provider := ocr.NewBoxFileProvider()
	boxes, err := provider.DetectTextBoxes(cmd.Context(), imagePath)
	if err != nil {
		return fmt.Errorf("ocr: %w", err)
	}

	pairs := matcher.Match(boxes, cfg.ToMatcher())

	var readings []imageReading
	if noClassify || !cfg.Classifier.Enabled {
		for _, pair := range pairs {
			readings = append(readings, imageReading{
				Quarter:  pair.Quarter,
				EPS:      pair.EPS,
				Distance: pair.Distance,
			})
		}
	} else {
		img, _, err := utils.LoadImage(imagePath)
		if err != nil {
			return err
		}
		for _, bar := range classifier.ClassifyBars(img, pairs, cfg.ToClassifier()) {
			readings = append(readings, imageReading{
				Quarter:    bar.Quarter,
				EPS:        bar.EPS,
				Distance:   bar.Distance,
				Shade:      string(bar.Shade),
				Confidence: string(bar.Confidence),
				Votes:      shadeVotes(bar.Votes),
				Methods:    methodCalls(bar.Methods),
			})
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(readings)
	case "text":
		for _, r := range readings {
			if r.Shade == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", r.Quarter, r.EPS)
				continue
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\t%s\t%s\n", r.Quarter, r.EPS, r.Shade, r.Confidence)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (use text or json)", format)
	}
}

func shadeVotes(votes map[classifier.Shade]int) map[string]int {
	out := make(map[string]int, len(votes))
	for shade, n := range votes {
		out[string(shade)] = n
	}
	return out
}

func methodCalls(methods map[string]classifier.Shade) map[string]string {
	out := make(map[string]string, len(methods))
	for method, shade := range methods {
		out[method] = string(shade)
	}
	return out
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().StringP("format", "f", "text", "output format: text, json")
	imageCmd.Flags().Bool("no-classify", false, "skip bar shade classification")
	imageCmd.Flags().Bool("single-method", false, "classify with the closing method only")
}
