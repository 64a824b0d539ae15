// Package embed implements phase-space reconstruction for scalar time
// series: time-delay embeddings, automatic embedding-lag selection from
// correlation and information criteria, exact nearest-neighbor search over
// embedded points, and minimal embedding dimension estimation via the
// False-Nearest-Neighbors statistic (Kennel et al., 1992) and Cao's E1/E2
// statistics (Cao, 1997).
//
// All functions are pure: they hold no state between calls and never
// mutate their inputs. Dimension profiles may legitimately contain NaN
// entries for dimensions where the series is too short to embed; a NaN at
// dimension d implies NaN at every dimension above d.
package embed
