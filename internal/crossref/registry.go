package crossref

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// RegType is one recognized regulation type. Aliases are the spellings
// the scanner accepts; Code is the slug segment citations resolve to.
type RegType struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type regTypeFile struct {
	Types []RegType `yaml:"types"`
}

// Registry holds the regulation-type table and the compiled citation
// patterns. Immutable after construction, safe for concurrent use.
type Registry struct {
	types       []RegType
	aliasToCode map[string]string // normalized alias → slug code
	workRe      *regexp.Regexp
	pasalRe     *regexp.Regexp
}

// NewRegistry loads the embedded regulation-type YAML and compiles the
// citation patterns.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/regtypes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read regtypes config: %w", err)
	}

	var file regTypeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal regtypes config: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("regtypes config declares no types")
	}

	r := &Registry{
		types:       file.Types,
		aliasToCode: make(map[string]string),
	}

	aliases := make([]string, 0, len(file.Types)*2)
	for _, rt := range file.Types {
		if rt.Code == "" {
			return nil, fmt.Errorf("regulation type %q has empty code", rt.Name)
		}
		for _, alias := range rt.Aliases {
			r.aliasToCode[normalizeAlias(alias)] = rt.Code
			aliases = append(aliases, alias)
		}
	}

	// Longest alias first so "Peraturan Pemerintah Pengganti Undang-Undang"
	// wins over "Peraturan Pemerintah".
	sort.Slice(aliases, func(i, j int) bool { return len(aliases[i]) > len(aliases[j]) })

	quoted := make([]string, len(aliases))
	for i, alias := range aliases {
		quoted[i] = regexp.QuoteMeta(alias)
	}

	// <type name> [Nomor] <number> Tahun <year>
	r.workRe, err = regexp.Compile(
		`(?i)\b(` + strings.Join(quoted, "|") + `)(?:\s+Nomor)?\s+(\d+)\s+Tahun\s+(\d{4})\b`)
	if err != nil {
		return nil, fmt.Errorf("compile work pattern: %w", err)
	}

	// Pasal <number><optional letter suffix>[ ayat (<n>)]
	r.pasalRe = regexp.MustCompile(`(?i)\bPasal\s+(\d+[A-Z]?)\b(?:\s+ayat\s+\(\d+\))?`)

	return r, nil
}

// CodeForAlias resolves a matched regulation-type spelling to its slug
// code. Returns "" for spellings outside the registry.
func (r *Registry) CodeForAlias(alias string) string {
	return r.aliasToCode[normalizeAlias(alias)]
}

// Types returns the registered regulation types.
func (r *Registry) Types() []RegType {
	return r.types
}

// normalizeAlias lowercases and collapses interior whitespace so that
// scanned-PDF spacing artifacts still hit the registry.
func normalizeAlias(alias string) string {
	return strings.Join(strings.Fields(strings.ToLower(alias)), " ")
}
