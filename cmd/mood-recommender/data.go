package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/justestif/go-mood-recommender/internal/corpus"
	"github.com/justestif/go-mood-recommender/internal/db"
	"github.com/justestif/go-mood-recommender/internal/logging"
	"github.com/justestif/go-mood-recommender/internal/moodmap"
)

var forceIngest bool

// errNoDatabase is returned by commands that only work against Postgres.
var errNoDatabase = errors.New("database.url (DATABASE_URL) must be set for this command")

var ingestCmd = &cobra.Command{
	Use:   "ingest <csv>",
	Short: "Build the corpus from a dataset and store it",
	Long: `Read an emotion-tagged dataset, normalize its VAD values and replace the
stored corpus. A database that already holds songs is left untouched unless
--force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var loadWordNetCmd = &cobra.Command{
	Use:   "load-wordnet <wn_s.pl>",
	Short: "Load WordNet synsets into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoadWordNet,
}

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "Print the mood regions of the corpus",
	Args:  cobra.NoArgs,
	RunE:  runMoods,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored corpus and thesaurus counts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runIngest(cmd *cobra.Command, args []string) error {
	if cfg.Database.URL == "" {
		return errNoDatabase
	}
	ctx := cmd.Context()

	database, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	svc := corpus.NewService(
		database.Songs(),
		corpus.WithRecorder(database.Builds()),
		corpus.WithLogger(logging.With("corpus")),
	)
	build, err := svc.Ingest(ctx, f, args[0], forceIngest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if build.Skipped {
		fmt.Fprintf(out, "Corpus already holds %d songs, nothing to do (use --force to rebuild)\n", build.Songs)
		return nil
	}
	fmt.Fprintf(out, "Ingested %d songs (%d rows dropped), build %s\n", build.Songs, build.Dropped, build.ID)
	return nil
}

func runLoadWordNet(cmd *cobra.Command, args []string) error {
	if cfg.Database.URL == "" {
		return errNoDatabase
	}
	ctx := cmd.Context()

	senses, err := readWordNet(args[0])
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Synsets().ReplaceAll(ctx, senses); err != nil {
		return fmt.Errorf("storing synsets: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d word senses\n", len(senses))
	return nil
}

func runMoods(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	m, err := buildMoodMap(ctx, b, cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), moodmap.FormatSummary(m))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if cfg.Database.URL == "" {
		return errNoDatabase
	}
	ctx := cmd.Context()

	database, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	songs, err := database.Songs().Count(ctx)
	if err != nil {
		return fmt.Errorf("counting songs: %w", err)
	}
	senses, err := database.Synsets().Count(ctx)
	if err != nil {
		return fmt.Errorf("counting synsets: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Songs:         %d\n", songs)
	fmt.Fprintf(out, "Word senses:   %d\n", senses)

	build, err := database.Builds().Latest(ctx)
	switch {
	case errors.Is(err, db.ErrNotFound):
		fmt.Fprintln(out, "Last build:    none")
	case err != nil:
		return fmt.Errorf("loading last build: %w", err)
	default:
		fmt.Fprintf(out, "Last build:    %s from %s at %s (%d songs, %d dropped)\n",
			build.ID, build.Source, build.BuiltAt.Format("2006-01-02 15:04:05"), build.Songs, build.Dropped)
	}
	return nil
}
