package record

import (
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

func decodeDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := sonic.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return doc
}

func TestNormalize_FullRosterEntry(t *testing.T) {
	t.Parallel()

	doc := decodeDoc(t, `{
		"id": "357662",
		"name": "Martin Ødegaard",
		"position": "Attacking Midfield",
		"dateOfBirth": "Dec 17, 1998",
		"nationality": ["Norway", "Sweden", "Denmark"],
		"height": "1,78m",
		"foot": "left",
		"marketValue": "€85.00m",
		"joinedOn": "Aug 20, 2021"
	}`)

	rctx := Context{
		Club:        "Arsenal FC",
		ClubID:      "11",
		LastUpdated: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	rec, err := Normalize(doc, rctx)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if rec.ID != "357662" || rec.Name != "Martin Ødegaard" {
		t.Fatalf("identity: %+v", rec)
	}
	if rec.NameDecoded != "martin odegaard" {
		t.Errorf("NameDecoded = %q", rec.NameDecoded)
	}
	if rec.Club != "Arsenal FC" || rec.ClubID != "11" {
		t.Errorf("club context: %+v", rec)
	}
	if rec.Position != "AM" {
		t.Errorf("Position = %q", rec.Position)
	}
	if rec.Nationality1 != "Norway" || rec.Nationality2 != "Sweden" {
		t.Errorf("nationalities = %q, %q (third entry must be dropped)", rec.Nationality1, rec.Nationality2)
	}
	if rec.MarketValue != 85_000_000 || !rec.HasMarketValue() {
		t.Errorf("MarketValue = %d", rec.MarketValue)
	}
	if rec.HeightCm != 178 {
		t.Errorf("HeightCm = %d", rec.HeightCm)
	}
	if rec.HeightFt != 5 || rec.HeightIn != 10 {
		t.Errorf("height = %d'%d\"", rec.HeightFt, rec.HeightIn)
	}
	// Age pinned to the roster's last-updated time, not the wall clock.
	if rec.AgeYears != 25 || rec.AgeMonths != 2 {
		t.Errorf("age = (%d, %d), want (25, 2)", rec.AgeYears, rec.AgeMonths)
	}
	if rec.Foot != FootLeft {
		t.Errorf("Foot = %q", rec.Foot)
	}
	if rec.JoinedAt.IsZero() {
		t.Error("JoinedAt not parsed")
	}
}

func TestNormalize_MissingFieldsAreSentinels(t *testing.T) {
	t.Parallel()

	doc := decodeDoc(t, `{"id": "99", "marketValue": "-"}`)

	rec, err := Normalize(doc, Context{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if rec.Nationality1 != "" || rec.Nationality2 != "" {
		t.Errorf("nationality should be absent: %+v", rec)
	}
	if rec.HasMarketValue() {
		t.Errorf("placeholder market value parsed: %d", rec.MarketValue)
	}
	if rec.HasHeight() {
		t.Errorf("height should be absent: %d", rec.HeightCm)
	}
	if rec.Foot != FootUnknown {
		t.Errorf("Foot = %q", rec.Foot)
	}
}

func TestNormalize_NoIDIsHardFailure(t *testing.T) {
	t.Parallel()

	doc := decodeDoc(t, `{"name": "Nobody"}`)
	if _, err := Normalize(doc, Context{}); !crerr.Is(err, ErrUnidentifiedPlayer) {
		t.Fatalf("expected ErrUnidentifiedPlayer, got %v", err)
	}
}

func TestNormalize_PositionObjectShape(t *testing.T) {
	t.Parallel()

	doc := decodeDoc(t, `{
		"id": "5",
		"position": {"main": "Centre-Back", "other": ["Right-Back"]}
	}`)

	rec, err := Normalize(doc, Context{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.Position != "CB" {
		t.Fatalf("Position = %q, want CB", rec.Position)
	}
}

func TestNormalizeFotmob_PlayerData(t *testing.T) {
	t.Parallel()

	doc := decodeDoc(t, `{
		"id": 1077894,
		"name": "Erling Haaland",
		"origin": {
			"positionDesc": {
				"positions": [
					{"strPosShort": {"label": "ST"}, "isMainPosition": true},
					{"strPosShort": {"label": "LW"}, "isMainPosition": false}
				]
			}
		},
		"playerProps": [
			{"translationKey": "height_sentencecase", "value": {"fallback": "195 cm"}},
			{"translationKey": "preferred_foot", "value": {"fallback": "Left"}},
			{"translationKey": "country_sentencecase", "countryCode": "NOR"},
			{"translationKey": "transfer_value", "value": {"fallback": "€180M"}},
			{"translationKey": "years", "dateOfBirth": {"utcTime": 964137600000}}
		],
		"careerStatistics": [
			{"seasons": [
				{"stats": [{"statsArr": [
					["Minutes played", {"key": "minutes_played", "value": 2800}],
					["Goals", {"key": "goals", "value": 36}]
				]}]},
				{"stats": [{"statsArr": [
					["Minutes played", {"key": "minutes_played", "value": 1900}]
				]}]}
			]}
		],
		"careerHistory": {"careerData": {"careerItems": {"senior": [
			{"appearances": "98 apps", "hasUncertainData": false},
			{"appearances": "27 apps", "hasUncertainData": false},
			{"appearances": "400 apps", "hasUncertainData": true}
		]}}}
	}`)

	rctx := Context{
		Club:        "Manchester City",
		ClubID:      "8456",
		LastUpdated: time.Date(2024, time.July, 30, 0, 0, 0, 0, time.UTC),
	}

	rec, err := NormalizeFotmob(doc, rctx)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if rec.ID != "1077894" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Position != "ST" {
		t.Errorf("Position = %q, want main position ST", rec.Position)
	}
	if rec.HeightCm != 195 {
		t.Errorf("HeightCm = %d", rec.HeightCm)
	}
	if rec.Foot != FootLeft {
		t.Errorf("Foot = %q", rec.Foot)
	}
	if rec.Nationality1 != "NOR" {
		t.Errorf("Nationality1 = %q", rec.Nationality1)
	}
	if rec.MarketValue != 180_000_000 {
		t.Errorf("MarketValue = %d", rec.MarketValue)
	}
	// 2000-07-21 birth date against the 2024-07-30 roster timestamp.
	if rec.AgeYears != 24 || rec.AgeMonths != 0 {
		t.Errorf("age = (%d, %d), want (24, 0)", rec.AgeYears, rec.AgeMonths)
	}
	if rec.MinutesPlayed != 4700 {
		t.Errorf("MinutesPlayed = %d, want 4700", rec.MinutesPlayed)
	}
	if rec.Appearances != 125 {
		t.Errorf("Appearances = %d, want 125 (uncertain rows skipped)", rec.Appearances)
	}
}

func TestNormalizeFotmob_FirstPositionWhenNoMainFlag(t *testing.T) {
	t.Parallel()

	doc := decodeDoc(t, `{
		"id": 7,
		"origin": {"positionDesc": {"positions": [
			{"strPosShort": {"label": "CM"}},
			{"strPosShort": {"label": "DM"}}
		]}}
	}`)

	rec, err := NormalizeFotmob(doc, Context{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.Position != "CM" {
		t.Fatalf("Position = %q, want first-listed CM", rec.Position)
	}
}
