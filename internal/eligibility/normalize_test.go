package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employercheck/internal/model"
)

func TestNormalize_BoundedBucketsAreOrdered(t *testing.T) {
	for _, axis := range []model.Axis{model.AxisAmount, model.AxisWeeks} {
		for _, b := range RangeBuckets(axis) {
			iv := Normalize(b.Value, axis)
			if b.Value == model.ValueNotSure {
				continue
			}
			require.False(t, iv.Unknown, "%s/%s", axis, b.Value)
			require.NotNil(t, iv.Min, "%s/%s", axis, b.Value)
			if iv.Max != nil {
				assert.GreaterOrEqual(t, *iv.Max, *iv.Min, "%s/%s", axis, b.Value)
			}
		}
	}
}

func TestNormalize_TopBucketIsOpenEnded(t *testing.T) {
	assert.Nil(t, Normalize("20000_plus", model.AxisAmount).Max)
	assert.Nil(t, Normalize("20_plus", model.AxisWeeks).Max)
	assert.Nil(t, Normalize("amt_1500_plus", model.AxisAmount).Max)
}

func TestNormalize_NotSureAndUnknownValues(t *testing.T) {
	cases := []struct {
		value string
		axis  model.Axis
	}{
		{model.ValueNotSure, model.AxisAmount},
		{model.ValueNotSure, model.AxisWeeks},
		{"", model.AxisAmount},
		{"10000_plus_v9", model.AxisAmount},
		{"amt_0", model.AxisWeeks},
		{"1_9", model.AxisAmount},
	}
	for _, tc := range cases {
		iv := Normalize(tc.value, tc.axis)
		assert.True(t, iv.Unknown, "%q on %s", tc.value, tc.axis)
		assert.Nil(t, iv.Min, "%q on %s", tc.value, tc.axis)
		assert.Nil(t, iv.Max, "%q on %s", tc.value, tc.axis)
	}
}

func TestNormalize_LegacyVocabularyMapsToSameSpace(t *testing.T) {
	pairs := map[string]string{
		"amt_0":         model.BucketNone,
		"amt_lt_1000":   "under_1000",
		"amt_1000_1499": "1000_1499",
	}
	for legacy, current := range pairs {
		assert.Equal(t, Normalize(current, model.AxisAmount), Normalize(legacy, model.AxisAmount), legacy)
	}

	top := Normalize("amt_1500_plus", model.AxisAmount)
	require.NotNil(t, top.Min)
	assert.Equal(t, 1500.0, *top.Min)
}

func TestInterval_IsZero(t *testing.T) {
	assert.True(t, Normalize(model.BucketNone, model.AxisAmount).IsZero())
	assert.True(t, Normalize("amt_0", model.AxisAmount).IsZero())
	assert.True(t, Normalize(model.BucketNone, model.AxisWeeks).IsZero())
	assert.False(t, Normalize("under_1000", model.AxisAmount).IsZero())
	assert.False(t, UnknownInterval.IsZero())
}

func TestRangeBuckets_Labels(t *testing.T) {
	buckets := RangeBuckets(model.AxisAmount)
	require.Len(t, buckets, len(amountBuckets)+1)
	assert.Equal(t, "$0 / none", buckets[0].Label)
	assert.Equal(t, "$1,000 to $1,499", buckets[2].Label)
	assert.Equal(t, "$20,000 or more", buckets[5].Label)
	assert.Equal(t, model.ValueNotSure, buckets[len(buckets)-1].Value)

	weeks := RangeBuckets(model.AxisWeeks)
	assert.Equal(t, "None", weeks[0].Label)
	assert.Equal(t, "1 to 9 weeks", weeks[1].Label)
	assert.Equal(t, "20 or more weeks", weeks[3].Label)
}
