package record

import (
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrUnidentifiedPlayer is the one hard normalization failure: a document
// with no usable identity. Every other missing field degrades to a
// per-field sentinel.
var ErrUnidentifiedPlayer = crerr.New("player document has no id")

// Normalize flattens a raw transfer-market roster entry into a Record.
// Upstream entries look like:
//
//	{"id": "357662", "name": "Martin Ødegaard", "position": "Attacking Midfield",
//	 "dateOfBirth": "Dec 17, 1998", "age": 25, "nationality": ["Norway"],
//	 "height": "1,78m", "foot": "right", "marketValue": "€85.00m", ...}
//
// but individual fields are frequently absent or reshaped across provider
// versions, so every access is a checked lookup.
func Normalize(raw map[string]any, rctx Context) (Record, error) {
	id := getString(raw, "id")
	if id == "" {
		return Record{}, ErrUnidentifiedPlayer
	}

	rec := Record{
		ID:          id,
		Name:        getString(raw, "name"),
		Club:        rctx.Club,
		ClubID:      rctx.ClubID,
		MarketValue: MarketValueMissing,
		Foot:        ParseFoot(getString(raw, "foot")),
	}
	rec.NameDecoded = FoldName(rec.Name)
	rec.Position = normalizePosition(raw)

	nationalities := getStringSlice(raw, "nationality")
	if len(nationalities) > 0 {
		rec.Nationality1 = nationalities[0]
	}
	// The upstream UI shows at most two nationalities; extras are dropped.
	if len(nationalities) > 1 {
		rec.Nationality2 = nationalities[1]
	}

	if value, ok := ParseCurrency(getString(raw, "marketValue")); ok {
		rec.MarketValue = value
	}

	if cm, ok := ParseHeight(getString(raw, "height")); ok {
		rec.HeightCm = cm
		rec.HeightFt, rec.HeightIn = CmToFtIn(cm)
	}

	if dob, ok := ParseDOB(getString(raw, "dateOfBirth")); ok {
		rec.DateOfBirth = dob
		applyAge(&rec, rctx)
	} else {
		rec.Age = getInt(raw, "age")
	}

	if joined, ok := ParseDOB(getString(raw, "joinedOn")); ok {
		rec.JoinedAt = joined
	}
	if until, ok := ParseDOB(getString(raw, "contract")); ok {
		rec.ContractUntil = until
	}

	return rec, nil
}

// normalizePosition handles both shapes the provider has used: a plain
// "position" string and a {"position": {"main": ..., "other": [...]}}
// object.
func normalizePosition(raw map[string]any) string {
	if label := getString(raw, "position"); label != "" {
		return PositionCode(label)
	}
	position := getMap(raw, "position")
	if label := getString(position, "main"); label != "" {
		return PositionCode(label)
	}
	if others := getStringSlice(position, "other"); len(others) > 0 {
		return PositionCode(others[0])
	}
	return ""
}

// applyAge fills the age fields relative to the roster's last-updated
// timestamp when known, so a cached record reads the same on every pass;
// uncached contexts fall back to the current time.
func applyAge(rec *Record, rctx Context) {
	ref := rctx.LastUpdated
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	rec.AgeYears, rec.AgeMonths = YearsMonthsBetween(rec.DateOfBirth, ref)
	rec.Age = rec.AgeYears
}
