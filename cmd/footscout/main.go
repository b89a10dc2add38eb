package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"

	"github.com/dfirman/footscout/external/fotmob"
	"github.com/dfirman/footscout/external/transfermarkt"
	"github.com/dfirman/footscout/internal/backfill"
	"github.com/dfirman/footscout/internal/cache"
	"github.com/dfirman/footscout/internal/config"
	"github.com/dfirman/footscout/internal/fetch"
	"github.com/dfirman/footscout/internal/platform/logging"
	"github.com/dfirman/footscout/internal/query"
	"github.com/dfirman/footscout/internal/record"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(cfg.LogLevel)
	defer logger.Sync()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer app.close()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: footscout <command> [flags]

commands:
  backfill-competitions   fetch and cache all rosters of the configured competitions
  players                 search normalized player records
  player                  dump one match-data player record
  totw                    list team-of-the-week selections for a league season
  stats                   market value summary for a competition`)
}

type app struct {
	cfg    config.Config
	logger *logging.Logger
	store  cache.Store
	svc    *fetch.Service

	closers []func() error
}

func newApp(cfg config.Config, logger *logging.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	switch cfg.CacheBackend {
	case config.BackendBolt:
		store, err := cache.NewBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	default:
		store, err := cache.NewFileStore(cfg.DataRoot)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	svc, err := fetch.NewService(fetch.ServiceConfig{
		Store: a.store,
		Fotmob: fotmob.NewClient(fotmob.ClientConfig{
			HTTPClient: httpClient,
			BaseURL:    cfg.FotmobBaseURL,
			Logger:     logger,
		}),
		Transfermarkt: transfermarkt.NewClient(transfermarkt.ClientConfig{
			HTTPClient: httpClient,
			BaseURL:    cfg.TransfermarktBaseURL,
			Logger:     logger,
		}),
		Logger:       logger,
		ForceRefresh: cfg.ForceRefresh,
	})
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return a, nil
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close store", "error", err)
		}
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "backfill-competitions":
		return a.backfillCompetitions(ctx, args)
	case "players":
		return a.players(ctx, args)
	case "player":
		return a.player(ctx, args)
	case "totw":
		return a.totw(ctx, args)
	case "stats":
		return a.stats(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// countryConfig mirrors one entry of the countries file: a competition per
// country plus the season to walk.
type countryConfig struct {
	Name          string `json:"name"`
	CompetitionID string `json:"competitionId"`
	SeasonID      string `json:"seasonId"`
}

func loadCountries(path string) ([]countryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var countries []countryConfig
	if err := sonic.Unmarshal(raw, &countries); err != nil {
		return nil, fmt.Errorf("parse countries file %s: %w", path, err)
	}
	return countries, nil
}

func (a *app) backfillCompetitions(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("backfill-competitions", flag.ContinueOnError)
	countriesPath := flags.String("countries", "countries.json", "path to the competitions config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	countries, err := loadCountries(*countriesPath)
	if err != nil {
		return err
	}

	for _, country := range countries {
		a.logger.Info("backfilling competition",
			"country", country.Name, "competition", country.CompetitionID, "season", country.SeasonID)

		units, err := backfill.CompetitionUnits(ctx, a.svc, []string{country.CompetitionID}, country.SeasonID)
		if err != nil {
			return err
		}

		driver := backfill.NewDriver(units, backfill.ClubRosterFetch(a.svc, country.SeasonID), backfill.DriverConfig{
			MinDelay:       a.cfg.BackfillMinDelay,
			MaxDelay:       a.cfg.BackfillMaxDelay,
			RateLimitPause: a.cfg.RateLimitPause,
			Logger:         a.logger,
		})
		report, err := driver.Run(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("competition backfill finished",
			"country", country.Name,
			"saved", report.Saved, "skipped", report.Skipped, "pending", report.Pending)
	}
	return nil
}

func (a *app) players(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("players", flag.ContinueOnError)
	competitionID := flags.String("country", "", "competition id, e.g. GB1")
	seasonID := flags.String("season", "2023", "season id")
	maxAge := flags.Int("max-age", 0, "maximum age")
	minAge := flags.Int("min-age", 0, "minimum age")
	positions := flags.String("positions", "", "comma-separated position codes, e.g. CB,ST")
	name := flags.String("name", "", "substring of the player name")
	limit := flags.Int("limit", 50, "maximum rows")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *competitionID == "" {
		return fmt.Errorf("-country is required")
	}

	records, err := a.svc.CompetitionPlayers(ctx, *competitionID, *seasonID)
	if err != nil {
		return err
	}

	filter := &query.Filter{Name: *name}
	if *minAge > 0 {
		filter.AgeMin = minAge
	}
	if *maxAge > 0 {
		filter.AgeMax = maxAge
	}
	if *positions != "" {
		filter.Positions = strings.Split(*positions, ",")
	}

	matched, err := query.Search(ctx, records, filter, query.Options{Limit: *limit})
	if err != nil {
		return err
	}
	printRecords(matched)
	return nil
}

func (a *app) player(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("player", flag.ContinueOnError)
	playerID := flags.Int64("id", 0, "match-data player id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *playerID == 0 {
		return fmt.Errorf("-id is required")
	}

	rec, err := a.svc.PlayerRecord(ctx, *playerID)
	if err != nil {
		return err
	}
	printRecords([]record.Record{rec})
	return nil
}

func (a *app) totw(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("totw", flag.ContinueOnError)
	leagueID := flags.Int64("league", 0, "match-data league id, e.g. 47")
	season := flags.String("season", "", "season label, e.g. 2023/2024")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *leagueID == 0 || *season == "" {
		return fmt.Errorf("-league and -season are required")
	}

	rounds, err := a.svc.LeagueTOTW(ctx, *leagueID, *season)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROUND\tPLAYER\tTEAM\tRATING\tMOTM")
	for _, round := range rounds {
		for _, player := range round.Players {
			motm := ""
			if player.MOTM {
				motm = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
				round.RoundID, player.Name, player.TeamName, player.Rating, motm)
		}
	}
	return w.Flush()
}

func (a *app) stats(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("stats", flag.ContinueOnError)
	competitionID := flags.String("country", "", "competition id, e.g. GB1")
	seasonID := flags.String("season", "2023", "season id")
	groupDim := flags.String("group-by", "", "optional grouping: age, club, nationality, value_band")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *competitionID == "" {
		return fmt.Errorf("-country is required")
	}

	records, err := a.svc.CompetitionPlayers(ctx, *competitionID, *seasonID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if *groupDim == "" {
		printStats(w, "all", query.Stats(records))
		return w.Flush()
	}

	groups, err := query.GroupBy(records, query.Dimension(*groupDim))
	if err != nil {
		return err
	}
	for _, group := range groups {
		printStats(w, group.Key, query.Stats(group.Records))
	}
	return w.Flush()
}

func printStats(w *tabwriter.Writer, key string, stats query.ValueStats) {
	fmt.Fprintf(w, "%s\tplayers=%d\tvalued=%d\tmin=%s\tmax=%s\tmean=%s\thmean=%s\ttotal=%s\n",
		key, stats.Count, stats.WithValue,
		query.AbbreviateValue(stats.Min), query.AbbreviateValue(stats.Max),
		query.AbbreviateValue(stats.Mean), query.AbbreviateValue(stats.HarmonicMean),
		query.AbbreviateValue(stats.Total))
}

func printRecords(records []record.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCLUB\tPOS\tAGE\tNAT\tFOOT\tHEIGHT\tVALUE\tAPPS\tMIN")
	for _, rec := range records {
		height := "-"
		if rec.HasHeight() {
			height = fmt.Sprintf("%d'%d\"", rec.HeightFt, rec.HeightIn)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			rec.Name, rec.Club, rec.Position, rec.Age, rec.Nationality1, rec.Foot,
			height, query.AbbreviateValue(rec.MarketValue), rec.Appearances, rec.MinutesPlayed)
	}
	w.Flush()
}
