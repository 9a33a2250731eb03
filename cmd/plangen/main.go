// Command plangen generates a personalized multi-week workout plan and prints
// it as markdown or writes it as HTML.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/myrjola/planfit/internal/catalog"
	"github.com/myrjola/planfit/internal/envstruct"
	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/logging"
	"github.com/myrjola/planfit/internal/plan"
	"github.com/myrjola/planfit/internal/retrieval"
	"github.com/myrjola/planfit/internal/sqlite"
)

type config struct {
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"PLANFIT_SQLITE_URL" envDefault:"./planfit.sqlite3"`
	// OpenAIAPIKey enables semantic retrieval and health-note classification.
	// When empty, keyword retrieval and rule-based health analysis are used.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
}

type planFlags struct {
	age       int
	gender    string
	heightCm  float64
	weightKg  float64
	level     string
	objective string
	sessions  int
	minutes   int
	equipment string
	note      string
	htmlPath  string
}

func parseFlags(args []string) (planFlags, error) {
	var f planFlags
	fs := flag.NewFlagSet("plangen", flag.ContinueOnError)
	fs.IntVar(&f.age, "age", 30, "age in years")
	fs.StringVar(&f.gender, "gender", "", "gender (affects starting load estimates)")
	fs.Float64Var(&f.heightCm, "height", 175, "height in centimeters")
	fs.Float64Var(&f.weightKg, "weight", 75, "body weight in kilograms")
	fs.StringVar(&f.level, "level", "beginner", "fitness level: beginner, intermediate, or advanced")
	fs.StringVar(&f.objective, "objective", "maintain", "objective: lose_fat, gain_muscle, endurance, or maintain")
	fs.IntVar(&f.sessions, "sessions", 3, "training sessions per week (1-7)")
	fs.IntVar(&f.minutes, "minutes", 60, "minutes per session")
	fs.StringVar(&f.equipment, "equipment", "", "comma-separated equipment preferences: bodyweight, home_workout, gym")
	fs.StringVar(&f.note, "note", "", "free-text health note, e.g. \"knee pain when running\"")
	fs.StringVar(&f.htmlPath, "html", "", "write the plan as HTML to this path instead of printing markdown")
	if err := fs.Parse(args); err != nil {
		return planFlags{}, fmt.Errorf("parse flags: %w", err)
	}
	return f, nil
}

func (f planFlags) profile() plan.UserProfile {
	heightM := f.heightCm / 100
	var bmi float64
	if heightM > 0 {
		bmi = f.weightKg / (heightM * heightM)
	}
	return plan.UserProfile{
		Age:          f.age,
		Gender:       f.gender,
		HeightCm:     f.heightCm,
		WeightKg:     f.weightKg,
		BMI:          bmi,
		FitnessLevel: plan.FitnessLevel(f.level),
		HealthNote:   f.note,
	}
}

func (f planFlags) goal() plan.Goal {
	var preferences []string
	for _, pref := range strings.Split(f.equipment, ",") {
		if pref = strings.TrimSpace(pref); pref != "" {
			preferences = append(preferences, pref)
		}
	}
	return plan.Goal{
		Objective:            plan.Objective(f.objective),
		SessionsPerWeek:      f.sessions,
		SessionMinutes:       f.minutes,
		EquipmentPreferences: preferences,
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), args []string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	flags, err := parseFlags(args)
	if err != nil {
		return err
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

	var (
		searcher   retrieval.Searcher
		classifier plan.HealthClassifier
	)
	if cfg.OpenAIAPIKey != "" {
		searcher = retrieval.NewIndex(db, retrieval.NewOpenAIEmbedder(cfg.OpenAIAPIKey), logger)
		classifier = plan.NewOpenAIHealthClassifier(cfg.OpenAIAPIKey)
	} else {
		logger.LogAttrs(ctx, slog.LevelInfo, "no OpenAI API key, using keyword retrieval")
		searcher = retrieval.NewKeywordSearcher(db, logger)
	}

	generator := plan.NewGenerator(searcher, catalog.NewRepository(db, logger), classifier, logger)
	service := plan.NewService(db, generator, logger)

	generated, err := service.GeneratePlan(ctx, flags.profile(), flags.goal(), "")
	if err != nil {
		return errors.Wrap(err, "generate plan")
	}

	if flags.htmlPath != "" {
		html, err := plan.FormatHTML(generated)
		if err != nil {
			return errors.Wrap(err, "format plan as HTML")
		}
		if err = os.WriteFile(flags.htmlPath, html, 0o600); err != nil {
			return errors.Wrap(err, "write HTML plan", slog.String("path", flags.htmlPath))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "wrote HTML plan",
			slog.String("path", flags.htmlPath), slog.String("plan_id", generated.ID))
		return nil
	}

	fmt.Print(plan.FormatMarkdown(generated))
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
		logger.LogAttrs(ctx, slog.LevelError, "failure generating plan", errors.SlogError(err))
		os.Exit(1)
	}
}
