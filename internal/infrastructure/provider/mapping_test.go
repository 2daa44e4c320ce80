package provider

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue float64
		wantValid bool
	}{
		{"number", `12.5`, 12.5, true},
		{"zero", `0`, 0, true},
		{"numeric string", `"3.8"`, 3.8, true},
		{"padded string", `" 7 "`, 7, true},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"placeholder text", `"Only available for premium subscribers."`, 0, false},
		{"NaN string", `"NaN"`, 0, false},
		{"Infinity string", `"Infinity"`, 0, false},
		{"negative Inf string", `"-Inf"`, 0, false},
		{"out of range number", `1e400`, 0, false},
		{"negative number", `-2.5`, -2.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				V FlexFloat `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"v":`+tt.input+`}`), &payload))
			assert.Equal(t, tt.wantValid, payload.V.Valid)
			assert.Equal(t, tt.wantValue, payload.V.Value)
		})
	}
}

func TestFlexFloat_RejectsObjects(t *testing.T) {
	var f FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
	assert.Error(t, json.Unmarshal([]byte(`true`), &f))
}

func TestFlexFloat_Accessors(t *testing.T) {
	absent := FlexFloat{}
	assert.Nil(t, absent.Ptr())
	assert.Equal(t, float64(0), absent.OrZero())

	present := FlexFloat{Value: 2.5, Valid: true}
	require.NotNil(t, present.Ptr())
	assert.Equal(t, 2.5, *present.Ptr())
	assert.Equal(t, 2.5, present.OrZero())
}

func TestRounding(t *testing.T) {
	assert.Equal(t, float64(165), RoundCalories(164.6))
	assert.Equal(t, 31.2, RoundGrams(31.16))
	assert.Equal(t, float64(74), RoundMilligrams(73.5))

	assert.Nil(t, OptionalGrams(nil))
	assert.Equal(t, 3.6, *OptionalGrams(domain.Float(3.57)))
	assert.Nil(t, OptionalMilligrams(nil))
	assert.Equal(t, float64(212), *OptionalMilligrams(domain.Float(211.8)))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "greek-yogurt-2", Slug("  Greek Yogurt (2%) "))
	assert.Equal(t, "", Slug("!!!"))
}

func TestFinalize(t *testing.T) {
	in := []domain.FoodResult{
		{ID: "a", Name: "Apple"},
		{ID: "b", Name: ""},
		{ID: "a", Name: "Apple again"},
		{ID: "c", Name: "Cherry"},
		{ID: "d", Name: "Date"},
	}

	t.Run("drops unnamed and repeated ids", func(t *testing.T) {
		out := Finalize(in, 0)
		require.Len(t, out, 3)
		assert.Equal(t, "Apple", out[0].Name)
		assert.Equal(t, "c", out[1].ID)
		assert.Equal(t, "d", out[2].ID)
	})

	t.Run("drops non-finite records", func(t *testing.T) {
		out := Finalize([]domain.FoodResult{
			{ID: "nan", Name: "Oat drink", Protein: math.NaN()},
			{ID: "inf", Name: "Oat bar", Sodium: domain.Float(math.Inf(1))},
			{ID: "ok", Name: "Oats", Protein: 13.2},
		}, 0)

		require.Len(t, out, 1)
		assert.Equal(t, "ok", out[0].ID)
		_, err := json.Marshal(out)
		assert.NoError(t, err)
	})

	t.Run("caps at limit", func(t *testing.T) {
		out := Finalize(in, 2)
		require.Len(t, out, 2)
		assert.Equal(t, "c", out[1].ID)
	})
}
