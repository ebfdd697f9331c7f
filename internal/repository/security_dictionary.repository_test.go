package repository

import (
	"context"
	"testing"

	"quantreport/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testDictionary(t *testing.T) SecurityDictionaryRepository {
	t.Helper()
	repo, err := NewSecurityDictionaryFromEntries(
		[]DictionaryEntry{
			{Code: "sh.000001", Name: "上证综合指数"},
			{Code: "sz.399300", Name: "沪深300指数"},
			{Code: "sh.510300", Name: "沪深300ETF"},
			{Code: "sh.600519", Name: "贵州茅台"},
		},
		map[string]string{
			"茅台": "贵州茅台",
		},
	)
	require.NoError(t, err)
	return repo
}

func TestSecurityDictionary_MatchAsset(t *testing.T) {
	ctx := context.Background()
	repo := testDictionary(t)

	t.Run("exact match", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "贵州茅台")
		require.NoError(t, err)

		require.Equal(t, domain.MatchTypeExact, result.MatchType)
		require.Equal(t, 1.0, result.Confidence)
		require.Equal(t, "sh.600519", *result.MatchedCode)
		require.Equal(t, "贵州茅台", *result.MatchedName)
	})

	t.Run("alias match resolves to canonical name", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "茅台")
		require.NoError(t, err)

		require.Equal(t, domain.MatchTypeAlias, result.MatchType)
		require.Equal(t, 0.95, result.Confidence)
		require.Equal(t, "贵州茅台", *result.MatchedName)
		require.Equal(t, "sh.600519", *result.MatchedCode)
	})

	t.Run("partial name resolves in dictionary order", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "沪深300")
		require.NoError(t, err)

		require.Equal(t, domain.MatchTypeFuzzy, result.MatchType)
		require.Equal(t, 0.8, result.Confidence)
		require.Equal(t, "沪深300指数", *result.MatchedName)
	})

	t.Run("query containing dictionary name", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "贵州茅台股份有限公司")
		require.NoError(t, err)

		require.Equal(t, domain.MatchTypeFuzzy, result.MatchType)
		require.Equal(t, "sh.600519", *result.MatchedCode)
	})

	t.Run("keyword match after suffix stripping", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "茅台基金")
		require.NoError(t, err)

		require.Equal(t, domain.MatchTypeFuzzy, result.MatchType)
		require.Equal(t, 0.7, result.Confidence)
		require.Equal(t, "贵州茅台", *result.MatchedName)
	})

	t.Run("unknown name yields none with nil identifiers", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "比特币")
		require.NoError(t, err)

		require.Equal(t, domain.MatchTypeNone, result.MatchType)
		require.Equal(t, 0.0, result.Confidence)
		require.Nil(t, result.MatchedName)
		require.Nil(t, result.MatchedCode)
	})

	t.Run("empty name yields none", func(t *testing.T) {
		result, err := repo.MatchAsset(ctx, "   ")
		require.NoError(t, err)
		require.Equal(t, domain.MatchTypeNone, result.MatchType)
	})

	t.Run("matching is deterministic", func(t *testing.T) {
		first, err := repo.MatchAsset(ctx, "沪深300")
		require.NoError(t, err)
		second, err := repo.MatchAsset(ctx, "沪深300")
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(first, second))
	})
}

func TestNewSecurityDictionaryRepository(t *testing.T) {
	t.Run("embedded dictionary loads and matches indices", func(t *testing.T) {
		repo, err := NewSecurityDictionaryRepository()
		require.NoError(t, err)

		result, err := repo.MatchAsset(context.Background(), "上证综合指数")
		require.NoError(t, err)
		require.Equal(t, domain.MatchTypeExact, result.MatchType)
		require.Equal(t, "sh.000001", *result.MatchedCode)
	})

	t.Run("empty dictionary is rejected", func(t *testing.T) {
		_, err := NewSecurityDictionaryFromEntries(nil, nil)
		require.Error(t, err)
	})
}
