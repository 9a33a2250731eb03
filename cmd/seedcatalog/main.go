// Command seedcatalog imports exercises from an HTML catalog export and
// computes embeddings for exercises that are missing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/envstruct"
	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/logging"
	"github.com/myrjola/planfit/internal/retrieval"
	"github.com/myrjola/planfit/internal/sqlite"
)

type config struct {
	// SqliteURL is the URL to the SQLite database.
	SqliteURL string `env:"PLANFIT_SQLITE_URL" envDefault:"./planfit.sqlite3"`
	// OpenAIAPIKey enables embedding computation. When empty, the import still
	// runs but embeddings are skipped.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), args []string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	fs := flag.NewFlagSet("seedcatalog", flag.ContinueOnError)
	exportPath := fs.String("file", "", "path to an exercise library HTML export to import")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "close db", errors.SlogError(closeErr))
		}
	}()

	repo := catalog.NewRepository(db, logger)

	if *exportPath != "" {
		if err = importExport(ctx, logger, repo, *exportPath); err != nil {
			return errors.Wrap(err, "import catalog export")
		}
	}

	if cfg.OpenAIAPIKey == "" {
		logger.LogAttrs(ctx, slog.LevelInfo, "no OpenAI API key, skipping embeddings")
		return nil
	}
	if err = computeEmbeddings(ctx, logger, db, repo, cfg.OpenAIAPIKey); err != nil {
		return errors.Wrap(err, "compute embeddings")
	}
	return nil
}

// importExport parses the HTML export and stores every well-formed exercise.
// Parse failures of individual entries are logged, not fatal.
func importExport(ctx context.Context, logger *slog.Logger, repo *catalog.Repository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open export", slog.String("path", path))
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "close export", errors.SlogError(closeErr))
		}
	}()

	exercises, parseErrors := catalog.ParseHTMLExport(f)
	for _, parseErr := range parseErrors {
		logger.LogAttrs(ctx, slog.LevelWarn, "skipping malformed exercise", errors.SlogError(parseErr))
	}

	imported := 0
	for _, ex := range exercises {
		if _, err = repo.Create(ctx, ex); err != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "skipping exercise",
				slog.String("name", ex.Name), errors.SlogError(err))
			continue
		}
		imported++
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "imported catalog export",
		slog.String("path", path),
		slog.Int("imported", imported),
		slog.Int("skipped", len(exercises)-imported+len(parseErrors)))
	return nil
}

// computeEmbeddings fills in embeddings for exercises that lack one.
func computeEmbeddings(
	ctx context.Context,
	logger *slog.Logger,
	db *sqlite.Database,
	repo *catalog.Repository,
	apiKey string,
) error {
	index := retrieval.NewIndex(db, retrieval.NewOpenAIEmbedder(apiKey), logger)

	missing, err := index.MissingEmbeddings(ctx)
	if err != nil {
		return errors.Wrap(err, "list missing embeddings")
	}
	if len(missing) == 0 {
		logger.LogAttrs(ctx, slog.LevelInfo, "all exercises already embedded")
		return nil
	}

	exercises, err := repo.GetByIDs(ctx, missing)
	if err != nil {
		return errors.Wrap(err, "fetch exercises")
	}

	for _, ex := range exercises {
		if err = index.SetEmbedding(ctx, ex.ID, ex.Document()); err != nil {
			return errors.Wrap(err, "set embedding",
				slog.Int("exercise_id", ex.ID), slog.String("name", ex.Name))
		}
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "computed embeddings", slog.Int("count", len(exercises)))
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv, os.Args[1:]); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure seeding catalog", errors.SlogError(err))
		os.Exit(1)
	}
}
