package record

import (
	"testing"
	"time"
)

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"€1.5m", 1_500_000, true},
		{"€500k", 500_000, true},
		{"€1.2b", 1_200_000_000, true},
		{"€85.00m", 85_000_000, true},
		{"€15M", 15_000_000, true},
		{"750", 750, true},
		{"-", MarketValueMissing, false},
		{"", MarketValueMissing, false},
		{"free", MarketValueMissing, false},
	}

	for _, tc := range cases {
		got, ok := ParseCurrency(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseCurrency(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseHeight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1,85m", 185, true},
		{"1.78m", 178, true},
		{"185 cm", 185, true},
		{"185", 185, true},
		{"-", 0, false},
		{"", 0, false},
		{"tall", 0, false},
		{"12", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseHeight(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseHeight(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCmToFtIn_RoundTrip(t *testing.T) {
	t.Parallel()

	cm, ok := ParseHeight("1,85m")
	if !ok {
		t.Fatal("parse failed")
	}
	ft, in := CmToFtIn(cm)
	if ft != 6 || in != 1 {
		t.Fatalf("185cm = %d'%d\", want 6'1\"", ft, in)
	}

	ft, in = CmToFtIn(183)
	if ft != 6 || in != 0 {
		t.Fatalf("183cm = %d'%d\", want 6'0\"", ft, in)
	}
}

func TestYearsMonthsBetween(t *testing.T) {
	t.Parallel()

	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		d1, d2 time.Time
		years  int
		months int
	}{
		{date(2000, time.June, 15), date(2024, time.June, 14), 23, 11},
		{date(2000, time.June, 15), date(2024, time.June, 15), 24, 0},
		{date(2000, time.June, 15), date(2024, time.July, 1), 24, 0},
		{date(1998, time.December, 17), date(2024, time.March, 1), 25, 2},
		// Order independence.
		{date(2024, time.June, 14), date(2000, time.June, 15), 23, 11},
	}

	for _, tc := range cases {
		years, months := YearsMonthsBetween(tc.d1, tc.d2)
		if years != tc.years || months != tc.months {
			t.Errorf("YearsMonthsBetween(%s, %s) = (%d, %d), want (%d, %d)",
				tc.d1.Format("2006-01-02"), tc.d2.Format("2006-01-02"),
				years, months, tc.years, tc.months)
		}
	}
}

func TestFoldName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Martin Ødegaard":  "martin odegaard",
		"Kylian Mbappé":    "kylian mbappe",
		"İlkay Gündoğan":   "ilkay gundogan",
		"Łukasz Fabiański": "lukasz fabianski",
		"Sergej Milinković-Savić": "sergej milinkovic-savic",
	}

	for in, want := range cases {
		if got := FoldName(in); got != want {
			t.Errorf("FoldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDOB(t *testing.T) {
	t.Parallel()

	got, ok := ParseDOB("Dec 17, 1998")
	if !ok || got.Year() != 1998 || got.Month() != time.December || got.Day() != 17 {
		t.Fatalf("ParseDOB display layout = (%v, %v)", got, ok)
	}

	got, ok = ParseDOB("1997-02-14 (27)")
	if !ok || got.Year() != 1997 {
		t.Fatalf("ParseDOB with age annotation = (%v, %v)", got, ok)
	}

	if _, ok := ParseDOB("-"); ok {
		t.Fatal("placeholder parsed as date")
	}
}

func TestPositionCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Goalkeeper":         "GK",
		"Centre-Back":        "CB",
		"Attacking Midfield": "AM",
		"Centre Forward":     "CF",
		"Left Winger":        "LW",
		"ST":                 "ST",
		"":                   "",
	}

	for in, want := range cases {
		if got := PositionCode(in); got != want {
			t.Errorf("PositionCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFoot(t *testing.T) {
	t.Parallel()

	cases := map[string]Foot{
		"left":   FootLeft,
		"Right":  FootRight,
		"both":   FootBoth,
		"either": FootBoth,
		"":       FootUnknown,
		"n/a":    FootUnknown,
	}

	for in, want := range cases {
		if got := ParseFoot(in); got != want {
			t.Errorf("ParseFoot(%q) = %q, want %q", in, got, want)
		}
	}
}
