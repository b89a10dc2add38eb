// Package query filters, sorts and aggregates normalized player records.
// Everything here is in-memory: the fetch layer produces the records, the
// query layer never touches the network or the cache.
package query

import (
	"context"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/dfirman/footscout/internal/record"
)

// ErrInvalidFilter wraps every filter validation failure.
var ErrInvalidFilter = crerr.New("invalid filter")

var validate = validator.New()

// Filter is an AND of predicates. A nil or zero field is no constraint.
type Filter struct {
	AgeMin   *int   `validate:"omitempty,gte=14,lte=50"`
	AgeMax   *int   `validate:"omitempty,gte=14,lte=50"`
	ValueMin *int64 `validate:"omitempty,gte=0"`
	ValueMax *int64 `validate:"omitempty,gte=0"`
	// Positions are matched against the record's short code (CB, ST, ...).
	Positions     []string `validate:"omitempty,dive,min=1,max=5"`
	Feet          []record.Foot
	Clubs         []string
	Nationalities []string
	// Name is a diacritic-insensitive substring match.
	Name string `validate:"omitempty,min=2"`
}

// Validate checks field ranges and the cross-field ordering constraints.
func (f *Filter) Validate(ctx context.Context) error {
	if err := validate.StructCtx(ctx, f); err != nil {
		return crerr.Wrapf(ErrInvalidFilter, "validation failed: %v", err)
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin >= *f.AgeMax {
		return crerr.Wrapf(ErrInvalidFilter, "age_min %d must be below age_max %d", *f.AgeMin, *f.AgeMax)
	}
	if f.ValueMin != nil && f.ValueMax != nil && *f.ValueMin >= *f.ValueMax {
		return crerr.Wrapf(ErrInvalidFilter, "value_min %d must be below value_max %d", *f.ValueMin, *f.ValueMax)
	}
	for _, foot := range f.Feet {
		switch foot {
		case record.FootLeft, record.FootRight, record.FootBoth, record.FootUnknown:
		default:
			return crerr.Wrapf(ErrInvalidFilter, "unknown foot %q", foot)
		}
	}
	return nil
}

// Matches reports whether one record passes every set predicate.
func (f *Filter) Matches(rec record.Record) bool {
	if f.AgeMin != nil && rec.Age < *f.AgeMin {
		return false
	}
	if f.AgeMax != nil && rec.Age > *f.AgeMax {
		return false
	}
	if f.ValueMin != nil && (!rec.HasMarketValue() || rec.MarketValue < *f.ValueMin) {
		return false
	}
	if f.ValueMax != nil && (!rec.HasMarketValue() || rec.MarketValue > *f.ValueMax) {
		return false
	}
	if len(f.Positions) > 0 && !containsFold(f.Positions, rec.Position) {
		return false
	}
	if len(f.Feet) > 0 && !containsFoot(f.Feet, rec.Foot) {
		return false
	}
	if len(f.Clubs) > 0 && !containsFolded(f.Clubs, rec.Club) {
		return false
	}
	if len(f.Nationalities) > 0 &&
		!containsFolded(f.Nationalities, rec.Nationality1) &&
		!containsFolded(f.Nationalities, rec.Nationality2) {
		return false
	}
	if f.Name != "" && !strings.Contains(record.FoldName(rec.Name), record.FoldName(f.Name)) {
		return false
	}
	return true
}

// SortKey selects the sort dimension for Search.
type SortKey string

const (
	SortByMarketValue SortKey = "market_value"
	SortByAge         SortKey = "age"
	SortByName        SortKey = "name"
	SortByAppearances SortKey = "appearances"
	SortByMinutes     SortKey = "minutes"
	SortByHeight      SortKey = "height"
)

type Options struct {
	SortBy    SortKey
	Ascending bool
	Limit     int
}

// Search filters and orders records. The default order is market value
// descending with valueless records last either way. The sort is stable, so
// ties keep the roster order the fetch walk produced.
func Search(ctx context.Context, records []record.Record, filter *Filter, opts Options) ([]record.Record, error) {
	if filter != nil {
		if err := filter.Validate(ctx); err != nil {
			return nil, err
		}
	}

	matched := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if filter == nil || filter.Matches(rec) {
			matched = append(matched, rec)
		}
	}

	sortKey := opts.SortBy
	if sortKey == "" {
		sortKey = SortByMarketValue
	}
	if err := sortRecords(matched, sortKey, opts.Ascending); err != nil {
		return nil, err
	}

	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func sortRecords(records []record.Record, key SortKey, ascending bool) error {
	var less func(a, b record.Record) bool
	switch key {
	case SortByMarketValue:
		less = func(a, b record.Record) bool {
			// Missing values sort after present ones in both directions.
			switch {
			case a.HasMarketValue() && !b.HasMarketValue():
				return true
			case !a.HasMarketValue() && b.HasMarketValue():
				return false
			case !a.HasMarketValue():
				return false
			}
			if ascending {
				return a.MarketValue < b.MarketValue
			}
			return a.MarketValue > b.MarketValue
		}
		sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
		return nil
	case SortByAge:
		less = func(a, b record.Record) bool { return a.Age < b.Age }
	case SortByName:
		less = func(a, b record.Record) bool {
			return record.FoldName(a.Name) < record.FoldName(b.Name)
		}
	case SortByAppearances:
		less = func(a, b record.Record) bool { return a.Appearances < b.Appearances }
	case SortByMinutes:
		less = func(a, b record.Record) bool { return a.MinutesPlayed < b.MinutesPlayed }
	case SortByHeight:
		less = func(a, b record.Record) bool { return a.HeightCm < b.HeightCm }
	default:
		return crerr.Wrapf(ErrInvalidFilter, "unknown sort key %q", key)
	}
	if !ascending {
		inner := less
		less = func(a, b record.Record) bool { return inner(b, a) }
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
	return nil
}

func containsFold(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if strings.EqualFold(candidate, needle) {
			return true
		}
	}
	return false
}

func containsFolded(haystack []string, needle string) bool {
	folded := record.FoldName(needle)
	for _, candidate := range haystack {
		if record.FoldName(candidate) == folded {
			return true
		}
	}
	return false
}

func containsFoot(haystack []record.Foot, needle record.Foot) bool {
	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}
	return false
}
