// Command generate-golden writes the reference products checked by the
// matrix package tests. Operands hold small integers so that every product
// is exact in float64.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/agbru/matnn/internal/loader"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/pkg/models"
)

// goldenShape describes one generated case: A is m×k and B is k×n.
type goldenShape struct {
	name    string
	m, k, n int
}

var shapes = []goldenShape{
	{"square_4", 4, 4, 4},
	{"rect_3x5_5x2", 3, 5, 2},
	{"odd_7", 7, 7, 7},
	{"square_16", 16, 16, 16},
	{"square_64", 64, 64, 64},
	{"square_128", 128, 128, 128},
}

func main() {
	outputDir := flag.String("out", "internal/matrix/testdata", "Output directory for the golden file")
	seed := flag.Uint64("seed", 20240601, "Seed of the operand generator")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5deece66d))
	cases := make([]models.GoldenCase, 0, len(shapes))
	fmt.Println("Generating golden data...")
	for _, s := range shapes {
		a := integerMatrix(rng, s.m, s.k)
		b := integerMatrix(rng, s.k, s.n)
		cases = append(cases, models.GoldenCase{
			Name:    s.name,
			A:       loader.ToPayload(a),
			B:       loader.ToPayload(b),
			Product: loader.ToPayload(matrix.NaiveMatMul(a, b)),
		})
		fmt.Printf("Generated %s (%dx%d · %dx%d)\n", s.name, s.m, s.k, s.k, s.n)
	}

	filename := filepath.Join(*outputDir, "strassen_golden.json")
	data, err := json.Marshal(cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing golden file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// integerMatrix returns a rows×columns matrix of integers in [-9, 9].
func integerMatrix(rng *rand.Rand, rows, columns int) *matrix.Matrix[float64] {
	elements := make([]float64, rows*columns)
	for i := range elements {
		elements[i] = float64(rng.IntN(19) - 9)
	}
	return matrix.NewFrom(rows, columns, elements)
}
