package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dfirman/footscout/internal/record"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func sampleRecords() []record.Record {
	return []record.Record{
		{ID: "1", Name: "Martin Ødegaard", NameDecoded: "martin odegaard", Club: "Arsenal", Position: "AM", Nationality1: "Norway", Age: 25, MarketValue: 110_000_000, Foot: record.FootLeft, HeightCm: 178, Appearances: 35, MinutesPlayed: 3000},
		{ID: "2", Name: "Erling Haaland", NameDecoded: "erling haaland", Club: "Manchester City", Position: "ST", Nationality1: "Norway", Age: 24, MarketValue: 180_000_000, Foot: record.FootLeft, HeightCm: 195, Appearances: 31, MinutesPlayed: 2700},
		{ID: "3", Name: "Jorginho", NameDecoded: "jorginho", Club: "Arsenal", Position: "DM", Nationality1: "Italy", Nationality2: "Brazil", Age: 32, MarketValue: 10_000_000, Foot: record.FootRight, HeightCm: 180, Appearances: 22, MinutesPlayed: 1400},
		{ID: "4", Name: "Trial Keeper", NameDecoded: "trial keeper", Club: "Arsenal", Position: "GK", Nationality1: "England", Age: 19, MarketValue: record.MarketValueMissing, Foot: record.FootRight, HeightCm: 190},
	}
}

func TestSearch_DefaultSortMarketValueDescending(t *testing.T) {
	got, err := Search(context.Background(), sampleRecords(), nil, Options{})
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, rec := range got {
		ids = append(ids, rec.ID)
	}
	// Valueless records always land at the tail.
	require.Equal(t, []string{"2", "1", "3", "4"}, ids)
}

func TestSearch_Predicates(t *testing.T) {
	records := sampleRecords()
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"age window", Filter{AgeMin: intPtr(24), AgeMax: intPtr(30)}, []string{"2", "1"}},
		{"value floor excludes missing", Filter{ValueMin: int64Ptr(1)}, []string{"2", "1", "3"}},
		{"position", Filter{Positions: []string{"st", "gk"}}, []string{"2", "4"}},
		{"club folded", Filter{Clubs: []string{"ARSENAL"}}, []string{"1", "3", "4"}},
		{"second nationality counts", Filter{Nationalities: []string{"Brazil"}}, []string{"3"}},
		{"name ignores diacritics", Filter{Name: "odegaard"}, []string{"1"}},
		{"foot", Filter{Feet: []record.Foot{record.FootLeft}}, []string{"2", "1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Search(context.Background(), records, &tc.filter, Options{})
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, rec := range got {
				ids = append(ids, rec.ID)
			}
			require.Equal(t, tc.want, ids)
		})
	}
}

func TestSearch_InvalidFilters(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
	}{
		{"age window inverted", Filter{AgeMin: intPtr(30), AgeMax: intPtr(20)}},
		{"age window degenerate", Filter{AgeMin: intPtr(25), AgeMax: intPtr(25)}},
		{"value window inverted", Filter{ValueMin: int64Ptr(100), ValueMax: int64Ptr(50)}},
		{"age out of range", Filter{AgeMin: intPtr(7)}},
		{"name too short", Filter{Name: "x"}},
		{"bad foot", Filter{Feet: []record.Foot{record.Foot("wing")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Search(context.Background(), sampleRecords(), &tc.filter, Options{})
			require.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}

func TestSearch_SortKeysAndLimit(t *testing.T) {
	got, err := Search(context.Background(), sampleRecords(), nil, Options{SortBy: SortByAge, Ascending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "4", got[0].ID)
	require.Equal(t, "2", got[1].ID)

	_, err = Search(context.Background(), sampleRecords(), nil, Options{SortBy: SortKey("shoe_size")})
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestGroupBy_Club(t *testing.T) {
	groups, err := GroupBy(sampleRecords(), GroupByClub)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Arsenal", groups[0].Key)
	require.Len(t, groups[0].Records, 3)
	// Mean over the two valued Arsenal records only.
	require.Equal(t, int64(60_000_000), groups[0].MeanValue)
	require.Equal(t, "Manchester City", groups[1].Key)
}

func TestGroupBy_AgeIsNumericallyOrdered(t *testing.T) {
	groups, err := GroupBy(sampleRecords(), GroupByAge)
	require.NoError(t, err)
	require.Equal(t, []string{"19", "24", "25", "32"}, []string{
		groups[0].Key, groups[1].Key, groups[2].Key, groups[3].Key,
	})
}

func TestGroupBy_ValueBands(t *testing.T) {
	values := []int64{10, 20, 30, 40, 1000}
	records := make([]record.Record, 0, len(values)+1)
	for i, v := range values {
		records = append(records, record.Record{ID: string(rune('a' + i)), MarketValue: v})
	}
	records = append(records, record.Record{ID: "z", MarketValue: record.MarketValueMissing})

	groups, err := GroupBy(records, GroupByValueBand)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	// mean 220, harmonic mean ~24: the outlier sits alone on top.
	require.Len(t, groups[0].Records, 1)
	require.Equal(t, int64(1000), groups[0].Records[0].MarketValue)

	middle := []int64{groups[1].Records[0].MarketValue, groups[1].Records[1].MarketValue}
	require.ElementsMatch(t, []int64{30, 40}, middle)

	bottom := []int64{groups[2].Records[0].MarketValue, groups[2].Records[1].MarketValue}
	require.ElementsMatch(t, []int64{10, 20}, bottom)

	require.Equal(t, "unknown", groups[3].Key)
	require.Len(t, groups[3].Records, 1)
}

func TestGroupBy_UnknownDimension(t *testing.T) {
	_, err := GroupBy(sampleRecords(), Dimension("boot_size"))
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestStats(t *testing.T) {
	stats := Stats(sampleRecords())
	require.Equal(t, 4, stats.Count)
	require.Equal(t, 3, stats.WithValue)
	require.Equal(t, int64(10_000_000), stats.Min)
	require.Equal(t, int64(180_000_000), stats.Max)
	require.Equal(t, int64(100_000_000), stats.Mean)
	require.Equal(t, int64(300_000_000), stats.Total)
	// 3 / (1/110m + 1/180m + 1/10m) ≈ 26.1m, dragged down by the cheapest.
	require.InDelta(t, 26_000_000, float64(stats.HarmonicMean), 1_000_000)
}

func TestAbbreviateValue(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1_500_000, "1.5m"},
		{500_000, "500k"},
		{1_200_000_000, "1.2b"},
		{85_000_000, "85m"},
		{750, "750"},
		{0, "0"},
		{record.MarketValueMissing, "-"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, AbbreviateValue(tc.in), "value %d", tc.in)
	}
}
