//go:build property
// +build property

// Package diff_test contains property-based tests for diff reconstruction.
package diff_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tracemark-io/tracemark/pkg/diff"
)

func side(tokens []diff.Token, keep diff.Kind) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Kind == diff.Unchanged || t.Kind == keep {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// TestDiffReconstruction verifies the core diff invariant.
// Property: filtering tokens by kind reconstructs each input exactly.
func TestDiffReconstruction(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("tokens reconstruct both sides", prop.ForAll(
		func(original, proposed string) bool {
			d := diff.Compute(original, proposed)
			return side(d.Tokens, diff.Deleted) == original &&
				side(d.Tokens, diff.Added) == proposed
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("tokenize concatenation is the identity", prop.ForAll(
		func(text string) bool {
			return strings.Join(diff.Tokenize(text), "") == text
		},
		gen.AnyString(),
	))

	properties.Property("merging preserves reconstruction", prop.ForAll(
		func(original, proposed string) bool {
			d := diff.Compute(original, proposed)
			merged := diff.MergeAdjacent(d.Tokens)
			return side(merged, diff.Deleted) == original &&
				side(merged, diff.Added) == proposed
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
