package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/dfirman/footscout/internal/record"
)

// Dimension selects how GroupBy buckets records.
type Dimension string

const (
	GroupByAge         Dimension = "age"
	GroupByClub        Dimension = "club"
	GroupByNationality Dimension = "nationality"
	GroupByValueBand   Dimension = "value_band"
)

// Group is one bucket of a GroupBy result.
type Group struct {
	Key       string
	Records   []record.Record
	MeanValue int64
}

// GroupBy buckets records along one dimension. Groups come back in a
// deterministic order: band order for value bands, key order otherwise.
func GroupBy(records []record.Record, dimension Dimension) ([]Group, error) {
	if dimension == GroupByValueBand {
		return groupByValueBand(records), nil
	}

	keyOf, err := groupKeyFunc(dimension)
	if err != nil {
		return nil, err
	}

	buckets := map[string][]record.Record{}
	for _, rec := range records {
		key := keyOf(rec)
		buckets[key] = append(buckets[key], rec)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	if dimension == GroupByAge {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
	} else {
		sort.Strings(keys)
	}

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, newGroup(key, buckets[key]))
	}
	return groups, nil
}

func groupKeyFunc(dimension Dimension) (func(record.Record) string, error) {
	switch dimension {
	case GroupByAge:
		return func(rec record.Record) string { return strconv.Itoa(rec.Age) }, nil
	case GroupByClub:
		return func(rec record.Record) string { return rec.Club }, nil
	case GroupByNationality:
		return func(rec record.Record) string { return rec.Nationality1 }, nil
	default:
		return nil, crerr.Wrapf(ErrInvalidFilter, "unknown group dimension %q", dimension)
	}
}

// groupByValueBand splits records into four bands. The boundaries are the
// arithmetic and harmonic means of the present market values; the harmonic
// mean sits well below the arithmetic one on the skewed distributions
// transfer values follow, so the top band isolates the true outliers.
func groupByValueBand(records []record.Record) []Group {
	mean, hmean := valueMeans(records)

	var top, middle, bottom, missing []record.Record
	for _, rec := range records {
		switch {
		case !rec.HasMarketValue() || rec.MarketValue == 0:
			missing = append(missing, rec)
		case float64(rec.MarketValue) >= mean:
			top = append(top, rec)
		case float64(rec.MarketValue) >= hmean:
			middle = append(middle, rec)
		default:
			bottom = append(bottom, rec)
		}
	}

	groups := make([]Group, 0, 4)
	if len(top) > 0 {
		groups = append(groups, newGroup(AbbreviateValue(int64(math.Round(mean)))+" and above", top))
	}
	if len(middle) > 0 {
		label := fmt.Sprintf("%s to %s",
			AbbreviateValue(int64(math.Round(hmean))),
			AbbreviateValue(int64(math.Round(mean))))
		groups = append(groups, newGroup(label, middle))
	}
	if len(bottom) > 0 {
		groups = append(groups, newGroup("under "+AbbreviateValue(int64(math.Round(hmean))), bottom))
	}
	if len(missing) > 0 {
		groups = append(groups, newGroup("unknown", missing))
	}
	return groups
}

func newGroup(key string, records []record.Record) Group {
	group := Group{Key: key, Records: records}
	total, counted := int64(0), int64(0)
	for _, rec := range records {
		if rec.HasMarketValue() {
			total += rec.MarketValue
			counted++
		}
	}
	if counted > 0 {
		group.MeanValue = total / counted
	}
	return group
}

// valueMeans computes the arithmetic and harmonic means of the present,
// strictly positive market values.
func valueMeans(records []record.Record) (mean, hmean float64) {
	var sum, reciprocalSum float64
	count := 0
	for _, rec := range records {
		if !rec.HasMarketValue() || rec.MarketValue <= 0 {
			continue
		}
		sum += float64(rec.MarketValue)
		reciprocalSum += 1 / float64(rec.MarketValue)
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), float64(count) / reciprocalSum
}

// ValueStats summarizes the market values present in a record set.
type ValueStats struct {
	Count        int
	WithValue    int
	Min          int64
	Max          int64
	Mean         int64
	HarmonicMean int64
	Total        int64
}

// Stats computes the summary table for a record set. Min, Max and the means
// consider only records with a known market value.
func Stats(records []record.Record) ValueStats {
	stats := ValueStats{Count: len(records)}
	for _, rec := range records {
		if !rec.HasMarketValue() {
			continue
		}
		if stats.WithValue == 0 || rec.MarketValue < stats.Min {
			stats.Min = rec.MarketValue
		}
		if rec.MarketValue > stats.Max {
			stats.Max = rec.MarketValue
		}
		stats.Total += rec.MarketValue
		stats.WithValue++
	}
	if stats.WithValue > 0 {
		mean, hmean := valueMeans(records)
		stats.Mean = int64(math.Round(mean))
		stats.HarmonicMean = int64(math.Round(hmean))
	}
	return stats
}

// AbbreviateValue renders a euro amount the way the transfer-market sites
// do: 1500000 → "1.5m", 500000 → "500k", 1200000000 → "1.2b".
func AbbreviateValue(value int64) string {
	if value < 0 {
		return "-"
	}
	switch {
	case value >= 1_000_000_000:
		return trimZero(float64(value)/1e9) + "b"
	case value >= 1_000_000:
		return trimZero(float64(value)/1e6) + "m"
	case value >= 1_000:
		return trimZero(float64(value)/1e3) + "k"
	default:
		return strconv.FormatInt(value, 10)
	}
}

func trimZero(v float64) string {
	formatted := strconv.FormatFloat(v, 'f', 2, 64)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}
