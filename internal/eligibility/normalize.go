package eligibility

import "employercheck/internal/model"

// Interval is a normalized bucket. A nil Max is unbounded above.
// Unknown intervals carry no bounds and must not be compared.
type Interval struct {
	Min     *float64
	Max     *float64
	Unknown bool
}

func bounded(lo, hi float64) Interval {
	return Interval{Min: &lo, Max: &hi}
}

func openAbove(lo float64) Interval {
	return Interval{Min: &lo}
}

// UnknownInterval is the result for not_sure and unrecognized buckets
var UnknownInterval = Interval{Unknown: true}

type bucketDef struct {
	value string
	iv    Interval
}

// Current amount vocabulary, in display order
var amountBuckets = []bucketDef{
	{model.BucketNone, bounded(0, 0)},
	{"under_1000", bounded(1, 999)},
	{"1000_1499", bounded(1000, 1499)},
	{"1500_4999", bounded(1500, 4999)},
	{"5000_19999", bounded(5000, 19999)},
	{"20000_plus", openAbove(20000)},
}

// Amount values written by sessions collected before the current vocabulary
var legacyAmountBuckets = map[string]Interval{
	"amt_0":         bounded(0, 0),
	"amt_lt_1000":   bounded(1, 999),
	"amt_1000_1499": bounded(1000, 1499),
	"amt_1500_plus": openAbove(1500),
}

var weeksBuckets = []bucketDef{
	{model.BucketNone, bounded(0, 0)},
	{"1_9", bounded(1, 9)},
	{"10_19", bounded(10, 19)},
	{"20_plus", openAbove(20)},
}

// Normalize maps a bucket value on axis to its interval.
// not_sure and anything unrecognized are Unknown, never zero.
func Normalize(value string, axis model.Axis) Interval {
	if value == "" || value == model.ValueNotSure {
		return UnknownInterval
	}
	switch axis {
	case model.AxisAmount:
		if iv, ok := lookup(amountBuckets, value); ok {
			return iv
		}
		if iv, ok := legacyAmountBuckets[value]; ok {
			return iv
		}
	case model.AxisWeeks:
		if iv, ok := lookup(weeksBuckets, value); ok {
			return iv
		}
	}
	return UnknownInterval
}

func lookup(defs []bucketDef, value string) (Interval, bool) {
	for _, d := range defs {
		if d.value == value {
			return d.iv, true
		}
	}
	return Interval{}, false
}

// IsZero reports whether the interval is exactly [0,0]
func (iv Interval) IsZero() bool {
	return !iv.Unknown && iv.Min != nil && iv.Max != nil && *iv.Min == 0 && *iv.Max == 0
}
