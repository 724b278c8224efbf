// Package main provides the conversation generator entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/app/artifact"
	"github.com/osa030/duetgen/internal/app/orchestrator"
	"github.com/osa030/duetgen/internal/app/poolsource"
	"github.com/osa030/duetgen/internal/domain/goal"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/infra/config"
	"github.com/osa030/duetgen/internal/infra/dataset"
	"github.com/osa030/duetgen/internal/infra/llm"
	"github.com/osa030/duetgen/internal/infra/logger"
	"github.com/osa030/duetgen/internal/infra/spotify"
)

var (
	app        = kingpin.New("duetgen", "Conversational recommendation dataset generator")
	configPath = app.Flag("config", "Path to config file").Default("config/duetgen.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	generateCmd = app.Command("generate", "Generate conversations for all dataset users (default)").Default()
	userID      = generateCmd.Flag("user", "Generate for a single user ID only").String()

	// list-goals command
	listGoalsCmd = app.Command("list-goals", "List the conversation goal catalog and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listGoalsCmd.FullCommand() {
		if err := printGoals(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load goal catalog: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{Output: "stdout", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Generation error: %v", err)
		os.Exit(1)
	}
}

// run executes the generation loop. Using a separate function ensures defer
// statements run even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	ds, err := dataset.Load(cfg.Dataset.Dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	client, err := llm.New(ctx, llm.Config{
		APIKey:  cfg.Model.APIKey,
		Model:   cfg.Model.Name,
		BaseURL: cfg.Model.BaseURL,
	}, cfg.Generation.TurnTimeout())
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	backend := orchestrator.NewBackend(client)

	catalog, err := goal.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("failed to load goal catalog: %w", err)
	}

	chain, err := buildPoolChain(ctx, cfg)
	if err != nil {
		return err
	}

	users := ds.Users()
	if *userID != "" {
		u, err := ds.User(*userID)
		if err != nil {
			return err
		}
		users = []dataset.User{u}
	}

	writer := orchestrator.NewWriter(cfg.Output.Dir)
	var failures int
	for _, u := range users {
		if err := generateForUser(ctx, cfg, backend, catalog, chain, ds, writer, u); err != nil {
			zlog.Error().Msgf("conversation failed: user=%s error=%v", u.ID, err)
			failures++
		}
	}

	zlog.Info().Msgf("generation finished: users=%d failures=%d output=%s", len(users), failures, cfg.Output.Dir)
	if failures > 0 {
		return fmt.Errorf("%d of %d conversations failed", failures, len(users))
	}
	return nil
}

// buildPoolChain creates the configured pool provider chain, or nil when the
// dataset's per-user pool lists should be used directly.
func buildPoolChain(ctx context.Context, cfg *config.Config) (*poolsource.Chain, error) {
	if len(cfg.Pool.Providers) == 0 {
		return nil, nil
	}

	var spotifyClient poolsource.SpotifyClient
	if cfg.Spotify.ClientID != "" {
		c, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Spotify client: %w", err)
		}
		spotifyClient = c
	}

	chain, err := poolsource.NewChainFromConfig(cfg, spotifyClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool providers: %w", err)
	}
	return chain, nil
}

func generateForUser(
	ctx context.Context,
	cfg *config.Config,
	backend orchestrator.Backend,
	catalog *goal.Catalog,
	chain *poolsource.Chain,
	ds *dataset.Dataset,
	writer *orchestrator.Writer,
	u dataset.User,
) error {
	liked := ds.LikedTracks(u)

	pool := ds.PoolTracks(u)
	if chain != nil {
		exclude := make(map[string]bool, len(liked))
		for _, t := range liked {
			exclude[t.ID] = true
		}
		fetched, err := chain.Fetch(ctx, cfg.Pool.Size, exclude)
		if err != nil {
			return fmt.Errorf("failed to assemble pool: %w", err)
		}
		pool = fetched
	}

	uploader := llm.DataURLUploader{}
	audio := artifact.NewCache(uploader, cfg.Dataset.ArtifactsDir, track.ModalityAudio, cfg.Generation.UploadTimeout())
	image := artifact.NewCache(uploader, cfg.Dataset.ArtifactsDir, track.ModalityImage, cfg.Generation.UploadTimeout())

	o := orchestrator.New(backend, audio, image, catalog, orchestrator.Config{
		TurnBudget:  cfg.Generation.TurnBudget,
		Seed:        cfg.Generation.Seed,
		TurnTimeout: cfg.Generation.TurnTimeout(),
		GoalTimeout: cfg.Generation.GoalTimeout(),
	})

	res, err := o.Generate(ctx, orchestrator.Input{
		UserID:       u.ID,
		Demographics: u.Demographics(),
		Liked:        liked,
		Pool:         pool,
	})
	if err != nil {
		return err
	}
	return writer.Write(res)
}

// printGoals renders the full goal catalog to stdout.
func printGoals() error {
	catalog, err := goal.DefaultCatalog()
	if err != nil {
		return err
	}
	for _, c := range goal.SelectableCategories() {
		for _, s := range goal.SelectableSpecificities() {
			g, err := catalog.Lookup(c, s)
			if err != nil {
				return err
			}
			fmt.Printf("%s/%s  turns=%d  %s\n", c, s, g.TargetTurnCount, g.ListenerGoal)
		}
	}
	return nil
}
