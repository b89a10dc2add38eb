// Package fetch composes the document cache with the upstream clients:
// every resource is answered from the cache when present and fetched,
// stored, then returned otherwise. Failures are never cached.
package fetch

import (
	"context"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/dfirman/footscout/external/fotmob"
	"github.com/dfirman/footscout/external/transfermarkt"
	"github.com/dfirman/footscout/internal/cache"
	"github.com/dfirman/footscout/internal/platform/logging"
	"github.com/dfirman/footscout/internal/platform/resilience"
)

// Resource kinds double as cache bucket/directory names.
const (
	KindLeague           = "league"
	KindFixtures         = "fixtures"
	KindMatch            = "match"
	KindPlayer           = "player"
	KindTeam             = "team"
	KindCompetitionClubs = "competition_clubs"
	KindClubPlayers      = "club_players"
	KindPlayerProfile    = "player_profile"
	KindPlayerStats      = "player_stats"
	KindTOTWRounds       = "totw_rounds"
	KindTOTWRound        = "totw_round"
)

type ServiceConfig struct {
	Store         cache.Store
	Fotmob        *fotmob.Client
	Transfermarkt *transfermarkt.Client
	Logger        *logging.Logger

	// ForceRefresh bypasses the cache check but still writes through, the
	// one invalidation lever the cache has.
	ForceRefresh bool
}

type Service struct {
	store  cache.Store
	fotmob *fotmob.Client
	tm     *transfermarkt.Client
	logger *logging.Logger
	force  bool
	flight resilience.SingleFlight
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, crerr.New("document store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:  cfg.Store,
		fotmob: cfg.Fotmob,
		tm:     cfg.Transfermarkt,
		logger: logger,
		force:  cfg.ForceRefresh,
	}, nil
}

// fetch is the cache-or-fetch core. Concurrent callers asking for the same
// key share one upstream request.
func (s *Service) fetch(ctx context.Context, key cache.Key, call func(context.Context) ([]byte, error)) ([]byte, error) {
	out, err, _ := s.flight.Do(key.String(), func() (any, error) {
		if !s.force {
			doc, err := s.store.Get(ctx, key)
			if err == nil {
				return doc, nil
			}
			if !crerr.Is(err, cache.ErrNotFound) {
				return nil, err
			}
		}

		doc, err := call(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store.Put(ctx, key, doc); err != nil {
			return nil, err
		}
		s.logger.DebugContext(ctx, "document fetched", "key", key.String(), "bytes", len(doc))
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	doc, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected document type %T", out)
	}
	return doc, nil
}

// League fetches the match-data league overview document.
func (s *Service) League(ctx context.Context, leagueID int64) ([]byte, error) {
	key := cache.NewKey(KindLeague, map[string]string{"id": strconv.FormatInt(leagueID, 10)})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fotmob.League(ctx, leagueID)
	})
}

// Fixtures fetches one league season's fixture list.
func (s *Service) Fixtures(ctx context.Context, leagueID int64, season string) ([]byte, error) {
	key := cache.NewKey(KindFixtures, map[string]string{
		"id":     strconv.FormatInt(leagueID, 10),
		"season": season,
	})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fotmob.Fixtures(ctx, leagueID, season)
	})
}

// Match fetches one match detail document.
func (s *Service) Match(ctx context.Context, matchID int64) ([]byte, error) {
	key := cache.NewKey(KindMatch, map[string]string{"id": strconv.FormatInt(matchID, 10)})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fotmob.Match(ctx, matchID)
	})
}

// PlayerDocument fetches the raw match-data player document.
func (s *Service) PlayerDocument(ctx context.Context, playerID int64) ([]byte, error) {
	key := cache.NewKey(KindPlayer, map[string]string{"id": strconv.FormatInt(playerID, 10)})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fotmob.Player(ctx, playerID)
	})
}

// Team fetches a team profile document.
func (s *Service) Team(ctx context.Context, teamID int64) ([]byte, error) {
	key := cache.NewKey(KindTeam, map[string]string{"id": strconv.FormatInt(teamID, 10)})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.fotmob.Team(ctx, teamID)
	})
}

// CompetitionClubs fetches a competition season's club list.
func (s *Service) CompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]byte, error) {
	key := cache.NewKey(KindCompetitionClubs, map[string]string{
		"competition_id": competitionID,
		"season_id":      seasonID,
	})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.tm.CompetitionClubs(ctx, competitionID, seasonID)
	})
}

// ClubPlayers fetches a club's roster snapshot for one season.
func (s *Service) ClubPlayers(ctx context.Context, clubID, seasonID string) ([]byte, error) {
	key := cache.NewKey(KindClubPlayers, map[string]string{
		"club_id":   clubID,
		"season_id": seasonID,
	})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.tm.ClubPlayers(ctx, clubID, seasonID)
	})
}

// PlayerProfile fetches a transfer-market player profile.
func (s *Service) PlayerProfile(ctx context.Context, playerID string) ([]byte, error) {
	key := cache.NewKey(KindPlayerProfile, map[string]string{"id": playerID})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.tm.PlayerProfile(ctx, playerID)
	})
}

// PlayerStats fetches a transfer-market player stat document.
func (s *Service) PlayerStats(ctx context.Context, playerID string) ([]byte, error) {
	key := cache.NewKey(KindPlayerStats, map[string]string{"id": playerID})
	return s.fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.tm.PlayerStats(ctx, playerID)
	})
}
