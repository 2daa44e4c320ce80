package usecase

import (
	"fmt"
	"testing"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(results []domain.FoodResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "chickenbreast", groupKey("Chicken Breast"))
	assert.Equal(t, "chickenbreast", groupKey("chicken-breast!"))
	assert.Equal(t, "greekyogurt2", groupKey("Greek Yogurt (2%)"))
	assert.Equal(t, "%%%", groupKey("%%%"))
	assert.Equal(t, "crèmebrûlée", groupKey("Crème Brûlée"))
	assert.Equal(t, groupKey("crème-brûlée"), groupKey("Crème Brûlée"))
	assert.NotEqual(t, groupKey("Crème Brûlée"), groupKey("Crme Brle"))
	assert.Equal(t, "豆腐", groupKey("豆腐 "))
}

func TestDetailScore(t *testing.T) {
	bare := domain.FoodResult{Name: "Apple"}
	assert.Equal(t, 0, detailScore(&bare))

	full := domain.FoodResult{
		Name:               "Apple",
		Brand:              "Orchard",
		Fiber:              domain.Float(2.4),
		Sugar:              domain.Float(10),
		Sodium:             domain.Float(1),
		ServingDescription: "1 medium",
		ImageURL:           "https://img/apple.jpg",
		Verified:           true,
	}
	assert.Equal(t, 9, detailScore(&full))

	zeroFiber := domain.FoodResult{Name: "Apple", Fiber: domain.Float(0)}
	assert.Equal(t, 1, detailScore(&zeroFiber), "a present zero still counts as populated")
}

func TestMergeAndRank_Dedup(t *testing.T) {
	t.Run("strictly higher score replaces in place", func(t *testing.T) {
		items := []domain.FoodResult{
			{ID: "usda_1", Name: "Banana", Verified: true},
			{ID: "usda_2", Name: "Apple", Verified: true},
			{ID: "edamam_1", Name: "banana", Verified: true, Fiber: domain.Float(2.6), ImageURL: "x"},
		}

		got := MergeAndRank(items, "", 0)

		assert.Equal(t, []string{"edamam_1", "usda_2"}, ids(got))
	})

	t.Run("tie keeps first seen", func(t *testing.T) {
		items := []domain.FoodResult{
			{ID: "usda_1", Name: "Peanut Butter", Verified: true, Brand: "Jif"},
			{ID: "nutritionix_1", Name: "peanut-butter", Verified: true, Sodium: domain.Float(140)},
		}

		got := MergeAndRank(items, "", 0)

		require.Len(t, got, 1)
		assert.Equal(t, "usda_1", got[0].ID)
	})

	t.Run("lower score never replaces", func(t *testing.T) {
		items := []domain.FoodResult{
			{ID: "a", Name: "Oats", Verified: true, Brand: "Quaker"},
			{ID: "b", Name: "OATS", Verified: true},
		}

		got := MergeAndRank(items, "", 0)

		assert.Equal(t, []string{"a"}, ids(got))
	})

	t.Run("symbol-only names stay distinct", func(t *testing.T) {
		items := []domain.FoodResult{
			{ID: "a", Name: "???", Verified: true},
			{ID: "b", Name: "!!!", Verified: true},
		}

		assert.Len(t, MergeAndRank(items, "", 0), 2)
	})
}

func TestMergeAndRank_Ordering(t *testing.T) {
	items := []domain.FoodResult{
		{ID: "unverified_rich", Name: "Rice cake", Brand: "B", Fiber: domain.Float(1), Sugar: domain.Float(1)},
		{ID: "verified_plain", Name: "Brown grain", Verified: true},
		{ID: "verified_match", Name: "White Rice", Verified: true},
		{ID: "verified_rich", Name: "Jasmine grain", Verified: true, Brand: "C", ImageURL: "x"},
		{ID: "verified_match_rich", Name: "Rice, brown", Verified: true, Sodium: domain.Float(5)},
	}

	got := MergeAndRank(items, "rice", 0)

	assert.Equal(t, []string{
		"verified_match_rich",
		"verified_match",
		"verified_rich",
		"verified_plain",
		"unverified_rich",
	}, ids(got))
}

func TestMergeAndRank_EmptyQueryDisablesMatchFlag(t *testing.T) {
	items := []domain.FoodResult{
		{ID: "a", Name: "Bread", Verified: true},
		{ID: "b", Name: "Rice", Verified: true},
	}

	assert.Equal(t, []string{"a", "b"}, ids(MergeAndRank(items, "", 0)))
	assert.Equal(t, []string{"b", "a"}, ids(MergeAndRank(items, "RICE", 0)))
}

func TestMergeAndRank_Truncates(t *testing.T) {
	var items []domain.FoodResult
	for i := 0; i < 75; i++ {
		items = append(items, domain.FoodResult{ID: fmt.Sprintf("id_%d", i), Name: fmt.Sprintf("food %d", i), Verified: true})
	}

	assert.Len(t, MergeAndRank(items, "food", 0), DefaultMaxResults)
	assert.Len(t, MergeAndRank(items, "food", 10), 10)
}

func TestMergeAndRank_Deterministic(t *testing.T) {
	items := append(foods("usda", "milk", 12), foods("edamam", "milk", 12)...)
	items = append(items, foods("usda", "milk", 3)...)

	first := MergeAndRank(items, "milk", 0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, MergeAndRank(items, "milk", 0))
	}
}

func TestMergeAndRank_Empty(t *testing.T) {
	got := MergeAndRank(nil, "anything", 0)

	require.NotNil(t, got)
	assert.Empty(t, got)
}
