package backfill

import (
	"context"
	"sort"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/dfirman/footscout/internal/fetch"
)

// CompetitionUnits expands a list of competition ids into per-club units for
// one season. The club fetch itself goes through the cache, so building the
// unit list twice costs one upstream round trip per competition at most.
func CompetitionUnits(ctx context.Context, svc *fetch.Service, competitionIDs []string, seasonID string) ([]Unit, error) {
	var units []Unit
	for _, competitionID := range competitionIDs {
		clubs, err := svc.Clubs(ctx, competitionID, seasonID)
		if err != nil {
			return nil, crerr.Wrapf(err, "expand competition %s", competitionID)
		}
		for _, club := range clubs {
			units = append(units, Unit{ID: club.ID, Label: club.Name})
		}
	}
	return units, nil
}

// ClubRosterFetch adapts the roster walk into a FetchFunc for club units.
func ClubRosterFetch(svc *fetch.Service, seasonID string) FetchFunc {
	return func(ctx context.Context, unit Unit) error {
		_, err := svc.ClubPlayerRecords(ctx, fetch.ClubRef{ID: unit.ID, Name: unit.Label}, seasonID)
		return err
	}
}

// LeagueUnits builds units for a set of match-data league ids, typically for
// team-of-the-week backfills.
func LeagueUnits(leagues map[int64]string) []Unit {
	units := make([]Unit, 0, len(leagues))
	for id, name := range leagues {
		units = append(units, Unit{ID: strconv.FormatInt(id, 10), Label: name})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}
