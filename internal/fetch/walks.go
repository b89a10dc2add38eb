package fetch

import (
	"context"
	"fmt"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/dfirman/footscout/external/rest"
	"github.com/dfirman/footscout/internal/cache"
	"github.com/dfirman/footscout/internal/record"
)

// ErrTOTWUnavailable reports a round whose upstream payload is an error
// envelope rather than a team. Such payloads are never cached.
var ErrTOTWUnavailable = crerr.New("team of the week unavailable")

// competitionClubsDoc is the envelope of a competition club list. Decoding
// is deliberately partial: only the fields the walk needs.
type competitionClubsDoc struct {
	ID       string    `json:"id"`
	SeasonID string    `json:"seasonID"`
	Clubs    []ClubRef `json:"clubs"`
}

// ClubRef is a club reference inside a competition document.
type ClubRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type clubPlayersDoc struct {
	ID        string           `json:"id"`
	Players   []map[string]any `json:"players"`
	UpdatedAt string           `json:"updatedAt"`
}

// Clubs returns the member club references of one competition season.
func (s *Service) Clubs(ctx context.Context, competitionID, seasonID string) ([]ClubRef, error) {
	raw, err := s.CompetitionClubs(ctx, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	var doc competitionClubsDoc
	if err := rest.DecodeJSON(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Clubs, nil
}

// ClubPlayerRecords fetches a club roster and normalizes each entry with
// the club context attached. Individual malformed entries are logged and
// skipped, never fatal for the roster.
func (s *Service) ClubPlayerRecords(ctx context.Context, club ClubRef, seasonID string) ([]record.Record, error) {
	raw, err := s.ClubPlayers(ctx, club.ID, seasonID)
	if err != nil {
		return nil, err
	}

	var doc clubPlayersDoc
	if err := rest.DecodeJSON(raw, &doc); err != nil {
		return nil, err
	}

	rctx := record.Context{Club: club.Name, ClubID: club.ID}
	if updated, ok := record.ParseDOB(doc.UpdatedAt); ok {
		rctx.LastUpdated = updated
	}

	records := make([]record.Record, 0, len(doc.Players))
	for _, rawPlayer := range doc.Players {
		rec, err := record.Normalize(rawPlayer, rctx)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unidentifiable roster entry",
				"club_id", club.ID, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// CompetitionPlayers walks competition → clubs → rosters and returns the
// normalized records. Each level is independently cached, so an interrupted
// walk resumes where it left off. Clubs the upstream no longer knows are
// skipped with a warning; transient failures abort so the caller can retry.
func (s *Service) CompetitionPlayers(ctx context.Context, competitionID, seasonID string) ([]record.Record, error) {
	clubs, err := s.Clubs(ctx, competitionID, seasonID)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch clubs of competition %s", competitionID)
	}

	var records []record.Record
	for _, club := range clubs {
		clubRecords, err := s.ClubPlayerRecords(ctx, club, seasonID)
		if err != nil {
			if rest.IsNotFound(err) {
				s.logger.WarnContext(ctx, "club roster not found, skipping",
					"club_id", club.ID, "club", club.Name)
				continue
			}
			return nil, crerr.Wrapf(err, "fetch roster of club %s", club.ID)
		}
		records = append(records, clubRecords...)
	}
	return records, nil
}

// PlayerRecord fetches and normalizes one match-data player document.
func (s *Service) PlayerRecord(ctx context.Context, playerID int64) (record.Record, error) {
	raw, err := s.PlayerDocument(ctx, playerID)
	if err != nil {
		return record.Record{}, err
	}
	var doc map[string]any
	if err := rest.DecodeJSON(raw, &doc); err != nil {
		return record.Record{}, err
	}
	return record.NormalizeFotmob(doc, record.Context{})
}

type leagueDoc struct {
	Stats struct {
		SeasonStatLinks []struct {
			Name           string `json:"Name"`
			TotwRoundsLink string `json:"TotwRoundsLink"`
		} `json:"seasonStatLinks"`
	} `json:"stats"`
}

type totwRoundsDoc struct {
	Rounds []RoundRef `json:"rounds"`
}

// RoundRef is a rounds-list entry pointing at one round's team link.
type RoundRef struct {
	RoundID     any    `json:"roundId"`
	Link        string `json:"link"`
	IsCompleted bool   `json:"isCompleted"`
}

func (r RoundRef) id() string {
	switch typed := r.RoundID.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	default:
		return fmt.Sprint(typed)
	}
}

type totwTeamDoc struct {
	ErrorMessage string       `json:"errorMessage"`
	Players      []TOTWPlayer `json:"players"`
}

// TOTWPlayer is one standout-player entry of a round.
type TOTWPlayer struct {
	ParticipantID int64   `json:"participantId"`
	Name          string  `json:"name"`
	TeamName      string  `json:"teamName"`
	Rating        float64 `json:"rating"`
	MOTM          bool    `json:"motm"`
}

// TOTWRound is one completed round's team of the week.
type TOTWRound struct {
	Season  string
	RoundID string
	Players []TOTWPlayer
}

// TOTWRounds fetches the rounds list for one league season. The rounds link
// is embedded in the league document per season.
func (s *Service) TOTWRounds(ctx context.Context, leagueID int64, season string) ([]RoundRef, error) {
	raw, err := s.League(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	var league leagueDoc
	if err := rest.DecodeJSON(raw, &league); err != nil {
		return nil, err
	}

	var link string
	for _, statLink := range league.Stats.SeasonStatLinks {
		if statLink.Name == season && statLink.TotwRoundsLink != "" {
			link = statLink.TotwRoundsLink
			break
		}
	}
	if link == "" {
		return nil, crerr.Newf("league %d has no team-of-the-week data for season %s", leagueID, season)
	}

	key := cache.NewKey(KindTOTWRounds, map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": season,
	})
	rawRounds, err := s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fotmob.TOTWRounds(ctx, link)
	})
	if err != nil {
		return nil, err
	}

	var rounds totwRoundsDoc
	if err := rest.DecodeJSON(rawRounds, &rounds); err != nil {
		return nil, err
	}

	completed := make([]RoundRef, 0, len(rounds.Rounds))
	for _, round := range rounds.Rounds {
		if round.IsCompleted && round.Link != "" {
			completed = append(completed, round)
		}
	}
	return completed, nil
}

// TOTWTeam fetches one round's team. An error-envelope payload yields
// ErrTOTWUnavailable and is not cached.
func (s *Service) TOTWTeam(ctx context.Context, leagueID int64, season string, round RoundRef) (TOTWRound, error) {
	key := cache.NewKey(KindTOTWRound, map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": season,
		"round":  round.id(),
	})
	raw, err := s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		doc, err := s.fotmob.TOTWRound(ctx, round.Link)
		if err != nil {
			return nil, err
		}
		var team totwTeamDoc
		if err := rest.DecodeJSON(doc, &team); err != nil {
			return nil, err
		}
		if team.ErrorMessage != "" {
			return nil, crerr.Wrapf(ErrTOTWUnavailable, "round %s: %s", round.id(), team.ErrorMessage)
		}
		return doc, nil
	})
	if err != nil {
		return TOTWRound{}, err
	}

	var team totwTeamDoc
	if err := rest.DecodeJSON(raw, &team); err != nil {
		return TOTWRound{}, err
	}
	return TOTWRound{Season: season, RoundID: round.id(), Players: team.Players}, nil
}

// LeagueTOTW walks league → rounds list → each completed round's team.
// Unavailable rounds are skipped; everything fetched along the way is
// cached per round.
func (s *Service) LeagueTOTW(ctx context.Context, leagueID int64, season string) ([]TOTWRound, error) {
	rounds, err := s.TOTWRounds(ctx, leagueID, season)
	if err != nil {
		return nil, err
	}

	teams := make([]TOTWRound, 0, len(rounds))
	for _, round := range rounds {
		team, err := s.TOTWTeam(ctx, leagueID, season, round)
		if err != nil {
			if crerr.Is(err, ErrTOTWUnavailable) {
				s.logger.WarnContext(ctx, "round has no team of the week",
					"league_id", leagueID, "season", season, "round", round.id())
				continue
			}
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}
