package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"quantreport/internal/domain"

	"github.com/gocarina/gocsv"
)

//go:embed data/securities.csv
var securitiesCsv []byte

//go:embed data/security_aliases.csv
var aliasesCsv []byte

// SecurityDictionaryRepository resolves free-text asset names to
// canonical securities. Matching is deterministic: the same name against
// the same dictionary always yields the same result.
type SecurityDictionaryRepository interface {
	MatchAsset(ctx context.Context, name string) (*domain.MatchResult, error)
}

type DictionaryEntry struct {
	Code string `csv:"code"`
	Name string `csv:"name"`
}

type aliasEntry struct {
	Alias string `csv:"alias"`
	Name  string `csv:"name"`
}

type securityDictionaryHandler struct {
	// entries keeps file order so fuzzy scans resolve ties the same way
	// on every call
	entries    []DictionaryEntry
	nameToCode map[string]string
	aliases    map[string]string
}

func NewSecurityDictionaryRepository() (SecurityDictionaryRepository, error) {
	entries := []DictionaryEntry{}
	if err := gocsv.UnmarshalBytes(securitiesCsv, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse security dictionary: %w", err)
	}

	aliasRows := []aliasEntry{}
	if err := gocsv.UnmarshalBytes(aliasesCsv, &aliasRows); err != nil {
		return nil, fmt.Errorf("failed to parse security aliases: %w", err)
	}

	aliases := map[string]string{}
	for _, a := range aliasRows {
		aliases[a.Alias] = a.Name
	}

	return NewSecurityDictionaryFromEntries(entries, aliases)
}

// NewSecurityDictionaryFromEntries builds a dictionary from explicit
// rows. Useful for tests and for callers that maintain their own
// security universe.
func NewSecurityDictionaryFromEntries(entries []DictionaryEntry, aliases map[string]string) (SecurityDictionaryRepository, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("security dictionary is empty")
	}
	nameToCode := map[string]string{}
	for _, e := range entries {
		nameToCode[e.Name] = e.Code
	}
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &securityDictionaryHandler{
		entries:    entries,
		nameToCode: nameToCode,
		aliases:    aliases,
	}, nil
}

// suffixes that users commonly append but dictionary names may omit,
// and vice versa
var nameSuffixes = []string{"ETF", "基金", "股份", "集团", "有限公司", "公司", "控股"}

func stripSuffixes(name string) string {
	out := name
	for _, s := range nameSuffixes {
		out = strings.ReplaceAll(out, s, "")
	}
	return strings.TrimSpace(out)
}

func (h *securityDictionaryHandler) match(name, code string, matchType domain.MatchType, confidence float64, query, note string) *domain.MatchResult {
	return &domain.MatchResult{
		Query:       query,
		MatchType:   matchType,
		MatchedName: &name,
		MatchedCode: &code,
		Confidence:  confidence,
		Note:        note,
	}
}

func (h *securityDictionaryHandler) MatchAsset(ctx context.Context, name string) (*domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(name)
	if query == "" {
		res := domain.NoMatch(name, "empty asset name")
		return &res, nil
	}

	if code, ok := h.nameToCode[query]; ok {
		return h.match(query, code, domain.MatchTypeExact, 1.0, query, "exact dictionary match"), nil
	}

	if canonical, ok := h.aliases[query]; ok {
		if code, ok := h.nameToCode[canonical]; ok {
			return h.match(canonical, code, domain.MatchTypeAlias, 0.95, query,
				fmt.Sprintf("alias match: %s -> %s", query, canonical)), nil
		}
	}

	for _, e := range h.entries {
		if strings.Contains(e.Name, query) {
			return h.match(e.Name, e.Code, domain.MatchTypeFuzzy, 0.8, query,
				fmt.Sprintf("dictionary name contains query: %s", e.Name)), nil
		}
	}

	for _, e := range h.entries {
		if strings.Contains(query, e.Name) {
			return h.match(e.Name, e.Code, domain.MatchTypeFuzzy, 0.8, query,
				fmt.Sprintf("query contains dictionary name: %s", e.Name)), nil
		}
	}

	clean := stripSuffixes(query)
	if clean != "" && clean != query && utf8.RuneCountInString(clean) >= 2 {
		for _, e := range h.entries {
			if strings.Contains(stripSuffixes(e.Name), clean) {
				return h.match(e.Name, e.Code, domain.MatchTypeFuzzy, 0.7, query,
					fmt.Sprintf("keyword match: %s -> %s", clean, e.Name)), nil
			}
		}
	}

	res := domain.NoMatch(query, "no dictionary entry matched")
	return &res, nil
}
