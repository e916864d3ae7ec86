// Package diff computes word-level diffs between two text versions using
// a longest-common-subsequence alignment. Whitespace runs are tokens in
// their own right, never discarded, so the token stream reconstructs both
// sides exactly. The diff is a display aid for edit review; signing never
// depends on it.
package diff

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a diff token.
type Kind string

const (
	Unchanged Kind = "unchanged"
	Added     Kind = "added"
	Deleted   Kind = "deleted"
)

// Token is one classified text span. Filtering a token sequence by kind
// (unchanged+deleted vs unchanged+added) reconstructs each input exactly.
type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// WordDiff is the full diff output: the token stream plus a unified-diff
// style rendering for display.
type WordDiff struct {
	Tokens      []Token `json:"tokens"`
	UnifiedText string  `json:"unifiedText"`
}

var tokenPattern = regexp.MustCompile(`\S+|\s+`)

// Tokenize splits text into maximal runs of non-whitespace or whitespace,
// alternating. The concatenation of the tokens is the input, byte for byte.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// ComputeLCS fills the standard dynamic-programming table where
// table[i][j] is the length of the longest common subsequence of the
// first i tokens of a and the first j tokens of b.
func ComputeLCS(a, b []string) [][]int {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	return table
}

// BuildTokens backtracks through the LCS table from table[len(a)][len(b)]
// to table[0][0]. Tie-break: when a token could be explained as either an
// addition or a deletion at equal table values, it is treated as an
// addition.
func BuildTokens(a, b []string, table [][]int) []Token {
	tokens := make([]Token, 0, len(a)+len(b))
	i, j := len(a), len(b)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			tokens = append(tokens, Token{Kind: Unchanged, Text: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			tokens = append(tokens, Token{Kind: Added, Text: b[j-1]})
			j--
		default:
			tokens = append(tokens, Token{Kind: Deleted, Text: a[i-1]})
			i--
		}
	}
	// Backtracking emits in reverse order.
	for l, r := 0, len(tokens)-1; l < r; l, r = l+1, r-1 {
		tokens[l], tokens[r] = tokens[r], tokens[l]
	}
	return tokens
}

// MergeAdjacent coalesces consecutive tokens of identical kind into one
// token, for display.
func MergeAdjacent(tokens []Token) []Token {
	if len(tokens) == 0 {
		return tokens
	}
	merged := make([]Token, 0, len(tokens))
	current := tokens[0]
	for _, t := range tokens[1:] {
		if t.Kind == current.Kind {
			current.Text += t.Text
			continue
		}
		merged = append(merged, current)
		current = t
	}
	return append(merged, current)
}

// Compute diffs original against proposed. Deterministic and pure.
func Compute(original, proposed string) *WordDiff {
	a := Tokenize(original)
	b := Tokenize(proposed)
	tokens := BuildTokens(a, b, ComputeLCS(a, b))
	return &WordDiff{
		Tokens:      tokens,
		UnifiedText: unified(tokens),
	}
}

// unified renders merged token groups as a unified-diff style block with a
// synthetic range header counting the tokens contributing to each side.
func unified(tokens []Token) string {
	nOrig, nProp := 0, 0
	for _, t := range tokens {
		switch t.Kind {
		case Unchanged:
			nOrig++
			nProp++
		case Deleted:
			nOrig++
		case Added:
			nProp++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "@@ -1,%d +1,%d @@", nOrig, nProp)
	for _, group := range MergeAdjacent(tokens) {
		prefix := " "
		switch group.Kind {
		case Deleted:
			prefix = "-"
		case Added:
			prefix = "+"
		}
		sb.WriteString("\n")
		sb.WriteString(prefix)
		sb.WriteString(group.Text)
	}
	return sb.String()
}
