//go:build property
// +build property

// Package canonicalize_test contains property-based tests for JCS
// canonicalization and digest determinism.
package canonicalize_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tracemark-io/tracemark/pkg/canonicalize"
)

// TestJCSInsertionOrderInvariance verifies that canonicalization does not
// depend on map insertion order.
// Property: JCS(build(keys, values, order1)) == JCS(build(keys, values, order2))
func TestJCSInsertionOrderInvariance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("canonical form is insertion-order invariant", prop.ForAll(
		func(keys []string, values []string) bool {
			n := len(keys)
			if len(values) < n {
				n = len(values)
			}

			// Duplicate keys would make forward and reverse insertion keep
			// different values for the same key, producing structurally
			// different maps. Keep the first occurrence of each key so both
			// maps hold identical entries.
			seen := make(map[string]struct{}, n)
			uniqKeys := make([]string, 0, n)
			uniqVals := make([]string, 0, n)
			for i := 0; i < n; i++ {
				if _, dup := seen[keys[i]]; dup {
					continue
				}
				seen[keys[i]] = struct{}{}
				uniqKeys = append(uniqKeys, keys[i])
				uniqVals = append(uniqVals, values[i])
			}

			forward := make(map[string]any)
			for i := range uniqKeys {
				forward[uniqKeys[i]] = uniqVals[i]
			}
			reverse := make(map[string]any)
			for i := len(uniqKeys) - 1; i >= 0; i-- {
				reverse[uniqKeys[i]] = uniqVals[i]
			}

			b1, err1 := canonicalize.JCS(forward)
			b2, err2 := canonicalize.JCS(reverse)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil // consistent failure only
			}
			return string(b1) == string(b2)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("canonical hash is insertion-order invariant", prop.ForAll(
		func(keys []string) bool {
			forward := make(map[string]any)
			for i, k := range keys {
				forward[k] = i
			}
			reverse := make(map[string]any)
			for i := len(keys) - 1; i >= 0; i-- {
				reverse[keys[i]] = i
			}
			// Rebuild forward values so duplicate keys resolve identically.
			for i, k := range keys {
				forward[k] = i
				reverse[k] = i
			}

			h1, err1 := canonicalize.CanonicalHash(forward)
			h2, err2 := canonicalize.CanonicalHash(reverse)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return h1 == h2
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestDigestStability verifies digest stability and collision sensitivity.
// Property: HashBytes(c) == HashBytes(c), and c != c' implies different hashes.
func TestDigestStability(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("digest is stable and change-sensitive", prop.ForAll(
		func(s string) bool {
			h1 := canonicalize.HashBytes([]byte(s))
			h2 := canonicalize.HashBytes([]byte(s))
			if h1 != h2 {
				return false
			}
			// A single appended space must change the digest.
			return h1 != canonicalize.HashBytes([]byte(s+" "))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
