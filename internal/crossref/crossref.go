// Package crossref scans free-form Indonesian statutory prose for legal
// citations ("Pasal 5 ayat (2)", "Undang-Undang Nomor 13 Tahun 2003")
// and splits the input into plain-text runs and citation tokens.
// Tokenization is lossless: concatenating every token's Value reproduces
// the input byte-for-byte. A citation that cannot be resolved against the
// caller's lookup table is left as plain text, never a dead link.
package crossref

import (
	"fmt"
	"strings"
)

// TokenType discriminates the Token union.
type TokenType string

const (
	TypeText  TokenType = "text"
	TypePasal TokenType = "pasal"
	TypeWork  TokenType = "work"
)

// Token is one run of the tokenized input. Value always carries the
// exact source text; the remaining fields are set per type.
type Token struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`

	// Pasal references: article number (with letter suffix, without ayat)
	// and the in-page anchor.
	PasalNumber string `json:"pasal_number,omitempty"`

	// Href is "#pasal-<number>" for pasal references or the resolved
	// reader path for work references.
	Href string `json:"href,omitempty"`
}

// Tokenizer scans text using the compiled registry patterns. Stateless
// per call, safe for concurrent use.
type Tokenizer struct {
	registry *Registry
}

// New builds a Tokenizer over the embedded regulation-type registry.
func New() (*Tokenizer, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("crossref registry: %w", err)
	}
	return &Tokenizer{registry: registry}, nil
}

// SlugKey builds the normalized lookup key for a work citation.
func SlugKey(code, number string, year string) string {
	return strings.ToLower(code) + "-" + number + "-" + year
}

// Tokenize splits text into plain-text and citation tokens. workLookup
// maps slug keys ("uu-13-2003") to reader paths; resolution is a pure
// function of the table, no store access.
func (t *Tokenizer) Tokenize(text string, workLookup map[string]string) []Token {
	if text == "" {
		return []Token{{Type: TypeText, Value: ""}}
	}

	var tokens []Token
	pos := 0       // scan cursor
	textStart := 0 // start of the pending plain-text run

	flush := func(end int) {
		if end > textStart {
			tokens = append(tokens, Token{Type: TypeText, Value: text[textStart:end]})
		}
	}

	for pos < len(text) {
		kind, loc, number := t.nextMatch(text, pos)
		if kind == "" {
			break
		}
		start, end := loc[0], loc[1]

		switch kind {
		case TypePasal:
			flush(start)
			tokens = append(tokens, Token{
				Type:        TypePasal,
				Value:       text[start:end],
				PasalNumber: number,
				Href:        "#pasal-" + number,
			})
			pos, textStart = end, end

		case TypeWork:
			match := text[start:end]
			sub := t.registry.workRe.FindStringSubmatch(match)
			key := SlugKey(t.registry.CodeForAlias(sub[1]), sub[2], sub[3])
			if path, ok := workLookup[key]; ok {
				flush(start)
				tokens = append(tokens, Token{
					Type:  TypeWork,
					Value: match,
					Href:  path,
				})
				pos, textStart = end, end
			} else {
				// Unresolvable citation: stays plain text. Keep scanning
				// after it so later citations are still found.
				pos = end
			}
		}
	}

	flush(len(text))
	return tokens
}

// nextMatch finds the earliest citation match at or after pos. On equal
// start positions the longer match wins. Returns the match kind, its
// absolute [start, end), and the pasal number capture when applicable.
func (t *Tokenizer) nextMatch(text string, pos int) (TokenType, [2]int, string) {
	rest := text[pos:]

	pasal := t.registry.pasalRe.FindStringSubmatchIndex(rest)
	work := t.registry.workRe.FindStringIndex(rest)

	switch {
	case pasal == nil && work == nil:
		return "", [2]int{}, ""
	case work == nil || (pasal != nil && (pasal[0] < work[0] ||
		(pasal[0] == work[0] && pasal[1]-pasal[0] >= work[1]-work[0]))):
		number := rest[pasal[2]:pasal[3]]
		return TypePasal, [2]int{pos + pasal[0], pos + pasal[1]}, number
	default:
		return TypeWork, [2]int{pos + work[0], pos + work[1]}, ""
	}
}
