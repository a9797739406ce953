package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/matnn/internal/loader"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/nn"
	"github.com/agbru/matnn/internal/ui"
	"github.com/agbru/matnn/pkg/models"
)

const (
	// PreviewLimit is the largest extent printed in full without -v.
	PreviewLimit = 8
	// PreviewEdges is the number of leading and trailing rows and columns
	// kept in a truncated preview.
	PreviewEdges = 3
)

// OutputConfig controls how a product is reported.
type OutputConfig struct {
	// OutputFile, if set, receives the product as a text grid.
	OutputFile string
	// Quiet prints the bare grid, for scripts.
	Quiet bool
	// Verbose prints the whole product instead of a preview.
	Verbose bool
	// JSON prints a models.MultiplyResponse.
	JSON bool
}

// Result is one finished product.
type Result struct {
	Algorithm string
	Product   *matrix.Matrix[float64]
	Duration  time.Duration
}

// DisplayResultWithConfig reports res on out according to cfg, then saves
// it to cfg.OutputFile when set.
func DisplayResultWithConfig(out io.Writer, res Result, cfg OutputConfig) error {
	switch {
	case cfg.JSON:
		if err := writeJSON(out, res); err != nil {
			return err
		}
	case cfg.Quiet:
		if err := matrix.WriteText(out, res.Product); err != nil {
			return err
		}
	default:
		DisplayResult(out, res, cfg.Verbose)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := loader.MatrixToFile(cfg.OutputFile, res.Product); err != nil {
		return err
	}
	if !cfg.Quiet && !cfg.JSON {
		fmt.Fprintf(out, "\n%s✓ Product saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}

func writeJSON(out io.Writer, res Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models.MultiplyResponse{
		Algorithm: res.Algorithm,
		Result:    loader.ToPayload(res.Product),
		Duration:  res.Duration.String(),
	})
}

// DisplayResult prints a header and the product, truncated to its corners
// unless verbose is set or the product is small.
func DisplayResult(out io.Writer, res Result, verbose bool) {
	fmt.Fprintf(out, "\n%s--- Product ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Shape      : %s%s%s\n", ui.ColorCyan(), res.Product.Shape(), ui.ColorReset())
	fmt.Fprintf(out, "Algorithm  : %s%s%s\n", ui.ColorBlue(), res.Algorithm, ui.ColorReset())
	fmt.Fprintf(out, "Time       : %s%s%s\n\n", ui.ColorGreen(), FormatExecutionDuration(res.Duration), ui.ColorReset())

	m := res.Product
	if verbose || (m.Rows() <= PreviewLimit && m.Columns() <= PreviewLimit) {
		_ = matrix.WriteText(out, m)
		return
	}
	fmt.Fprint(out, FormatPreview(m, PreviewEdges))
	fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full product)\n", ui.ColorYellow(), ui.ColorReset())
}

// FormatPreview renders the first and last edges rows and columns of m,
// eliding the middle with "…". Values use the shortest representation
// that round-trips.
func FormatPreview(m *matrix.Matrix[float64], edges int) string {
	rows := previewIndices(m.Rows(), edges)
	cols := previewIndices(m.Columns(), edges)

	var b strings.Builder
	for _, r := range rows {
		if r < 0 {
			b.WriteString("…\n")
			continue
		}
		cells := make([]string, len(cols))
		for i, c := range cols {
			if c < 0 {
				cells[i] = "…"
				continue
			}
			cells[i] = strconv.FormatFloat(m.At(r, c), 'g', 6, 64)
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// previewIndices lists the indices to show, with -1 marking the elision.
func previewIndices(n, edges int) []int {
	if n <= 2*edges {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, 2*edges+1)
	for i := 0; i < edges; i++ {
		idx = append(idx, i)
	}
	idx = append(idx, -1)
	for i := n - edges; i < n; i++ {
		idx = append(idx, i)
	}
	return idx
}

// DisplayTrainingSummary prints the measures of the last epoch and the
// training time.
func DisplayTrainingSummary(out io.Writer, history []nn.TrainingResults, f nn.Formatter, duration time.Duration) {
	fmt.Fprintf(out, "\n%s--- Training summary ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Epochs     : %s%d%s\n", ui.ColorCyan(), len(history), ui.ColorReset())
	fmt.Fprintf(out, "Time       : %s%s%s\n", ui.ColorGreen(), FormatExecutionDuration(duration), ui.ColorReset())
	if len(history) == 0 {
		return
	}
	fmt.Fprintf(out, "Final      : %s%s%s\n", ui.ColorMagenta(), f.Format(history[len(history)-1]), ui.ColorReset())
}
