// Package diff implements the word-granularity LCS diff used for
// correction previews and change statistics. Whitespace runs are kept as
// their own tokens so the original spacing is exactly reconstructible
// from the edit script.
package diff

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OpKind classifies one edit-script element.
type OpKind string

const (
	Equal  OpKind = "equal"
	Insert OpKind = "insert"
	Delete OpKind = "delete"
)

// Op is one element of a diff edit script. Concatenating the Text of all
// Equal+Delete ops in order reproduces the original input; Equal+Insert
// reproduces the modified input.
type Op struct {
	Kind OpKind `json:"type"`
	Text string `json:"text"`
}

// Stats summarizes an edit script. Derived, never stored as-is.
type Stats struct {
	Changes       int `json:"changes"`
	CharsDeleted  int `json:"chars_deleted"`
	CharsInserted int `json:"chars_inserted"`
}

// MaxWords is the per-side token ceiling before Compute falls back to a
// whole-text delete+insert script. Legal texts occasionally run to tens
// of thousands of words; the O(m·n) table must never be allocated for
// those.
const MaxWords = 2000

// Compute returns the word-level edit script turning original into
// modified. It is a total function: any two strings, including empty
// ones, produce a valid script.
func Compute(original, modified string) []Op {
	origWords := splitWords(original)
	modWords := splitWords(modified)
	m := len(origWords)
	n := len(modWords)

	// Guard against O(m·n) explosion on very large texts. Checked before
	// the table allocation, not after.
	if m*n > MaxWords*MaxWords {
		return []Op{
			{Kind: Delete, Text: original},
			{Kind: Insert, Text: modified},
		}
	}

	// Build LCS table
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if origWords[i-1] == modWords[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack to build the reversed op sequence. On ties, consume the
	// modified side first so new content is shown before removals.
	ops := make([]Op, 0, m+n)
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && origWords[i-1] == modWords[j-1]:
			ops = append(ops, Op{Kind: Equal, Text: origWords[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			ops = append(ops, Op{Kind: Insert, Text: modWords[j-1]})
			j--
		default:
			ops = append(ops, Op{Kind: Delete, Text: origWords[i-1]})
			i--
		}
	}

	reverse(ops)
	return merge(ops)
}

// ComputeStats iterates an edit script once and accumulates summary
// statistics. Character counts are of the trimmed op text.
func ComputeStats(ops []Op) Stats {
	var s Stats
	for _, op := range ops {
		switch op.Kind {
		case Delete:
			s.Changes++
			s.CharsDeleted += utf8.RuneCountInString(strings.TrimSpace(op.Text))
		case Insert:
			s.Changes++
			s.CharsInserted += utf8.RuneCountInString(strings.TrimSpace(op.Text))
		}
	}
	return s
}

// splitWords splits text into alternating word and whitespace-run tokens.
// Concatenating the tokens reproduces the input exactly.
func splitWords(text string) []string {
	if text == "" {
		return nil
	}
	tokens := make([]string, 0, len(text)/4)
	start := 0
	first, _ := utf8.DecodeRuneInString(text)
	inSpace := unicode.IsSpace(first)
	for idx, r := range text {
		space := unicode.IsSpace(r)
		if space != inSpace {
			tokens = append(tokens, text[start:idx])
			start = idx
			inSpace = space
		}
	}
	return append(tokens, text[start:])
}

// merge collapses adjacent ops of the same kind into one op. Keeps the
// script minimal and the stats stable.
func merge(ops []Op) []Op {
	if len(ops) == 0 {
		return ops
	}
	merged := make([]Op, 0, len(ops))
	for _, op := range ops {
		if len(merged) > 0 && merged[len(merged)-1].Kind == op.Kind {
			merged[len(merged)-1].Text += op.Text
			continue
		}
		merged = append(merged, op)
	}
	return merged
}

func reverse(ops []Op) {
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
}
