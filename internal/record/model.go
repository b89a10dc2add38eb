package record

import (
	"strings"
	"time"
)

// Foot is a player's preferred foot.
type Foot string

const (
	FootLeft    Foot = "left"
	FootRight   Foot = "right"
	FootBoth    Foot = "both"
	FootUnknown Foot = "unknown"
)

func ParseFoot(raw string) Foot {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "left":
		return FootLeft
	case "right":
		return FootRight
	case "both", "either":
		return FootBoth
	default:
		return FootUnknown
	}
}

// MarketValueMissing is the sentinel for an unparseable or absent market
// value. -1 rather than 0 so a genuine zero valuation stays representable.
const MarketValueMissing int64 = -1

// Record is the flat, typed form of one raw player document plus the club
// context active at fetch time. It is built once by the normalizer and never
// merged across fetches.
type Record struct {
	ID          string
	Name        string
	NameDecoded string

	Club   string
	ClubID string

	Position     string
	Nationality1 string
	Nationality2 string

	MarketValue int64

	HeightCm int
	HeightFt int
	HeightIn int

	Age       int
	AgeYears  int
	AgeMonths int

	Foot        Foot
	DateOfBirth time.Time

	JoinedAt      time.Time
	ContractUntil time.Time

	Appearances   int
	MinutesPlayed int
}

func (r Record) HasMarketValue() bool {
	return r.MarketValue >= 0
}

func (r Record) HasHeight() bool {
	return r.HeightCm > 0
}

// Context carries the owning club and the upstream last-updated timestamp
// into normalization. Ages are computed against LastUpdated when set so a
// cached roster reads the same on every pass.
type Context struct {
	Club        string
	ClubID      string
	LastUpdated time.Time
}
