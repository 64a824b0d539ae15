package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
)

// dvvConfig controls the delay vector variance sweep: the embedding
// dimension, the spread of thresholds around the mean pairwise distance
// in standard deviations, and how many thresholds span that range.
type dvvConfig struct {
	EmbedDim   int
	StdRange   float64
	NumSpacing int
}

func dvvDefaults() dvvConfig {
	return dvvConfig{EmbedDim: 2, StdRange: 3, NumSpacing: 4}
}

// embedInShell embeds the standardized series in two dimensions and
// returns the fraction of delay vectors whose Euclidean norm falls inside
// the zero-centered hypershell [inner, outer].
func embedInShell(scaled []float64, lag int, inner, outer float64) (float64, error) {
	if inner < 0 || outer <= 0 || outer < inner {
		return 0, embed.ErrInvalidParameter
	}

	embedding, err := embed.Embed(scaled, lag, 2)
	if err != nil {
		return 0, err
	}

	count := 0

	for _, row := range embedding {
		var sq float64
		for _, v := range row {
			sq += v * v
		}

		radius := math.Sqrt(sq)
		if inner <= radius && radius <= outer {
			count++
		}
	}

	return float64(count) / float64(len(embedding)), nil
}

// delayVectorVariance estimates signal predictability with the delay
// vector variance method: for a sweep of distance thresholds around the
// mean pairwise distance, it accumulates the sample variance of each
// delay vector's neighborhood. Low variance at small thresholds indicates
// a deterministic signal.
func delayVectorVariance(scaled []float64, lag int, cfg dvvConfig) ([]float64, error) {
	embedding, err := embed.Embed(scaled, lag, cfg.EmbedDim)
	if err != nil {
		return nil, err
	}

	if len(embedding) < 2 || cfg.NumSpacing < 2 {
		return nil, embed.ErrInvalidInput
	}

	dist, err := embed.Provider(embed.MetricMinkowski, 2)
	if err != nil {
		return nil, err
	}

	numRows := len(embedding)
	matrix := make([][]float64, numRows)

	flat := make([]float64, 0, numRows*(numRows-1)/2)

	for i := range matrix {
		matrix[i] = make([]float64, numRows)
		matrix[i][i] = math.Inf(1)
	}

	for i := range numRows {
		for j := i + 1; j < numRows; j++ {
			d := dist(embedding[i], embedding[j])
			matrix[i][j] = d
			matrix[j][i] = d
			flat = append(flat, d)
		}
	}

	distMean := stat.Mean(flat, nil)
	distStd := stat.StdDev(flat, nil)

	varSets := make([]float64, cfg.NumSpacing)

	for i := range cfg.NumSpacing {
		offset := float64(i)*2/float64(cfg.NumSpacing-1) - 1
		threshold := math.Max(0, distMean+cfg.StdRange*distStd*offset)

		for _, row := range matrix {
			values := neighborhoodValues(embedding, row, threshold)

			// A neighborhood needs more points than the variance has
			// degrees of freedom.
			if len(values) > cfg.EmbedDim {
				varSets[i] += stat.Variance(values, nil)
			}
		}

		varSets[i] /= float64(cfg.NumSpacing)
	}

	return varSets, nil
}

// neighborhoodValues flattens the delay vectors within threshold of a row.
func neighborhoodValues(embedding [][]float64, dists []float64, threshold float64) []float64 {
	var values []float64

	for j, d := range dists {
		if d <= threshold {
			values = append(values, embedding[j]...)
		}
	}

	return values
}
