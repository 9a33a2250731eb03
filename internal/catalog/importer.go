package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultDifficulty is assumed when an export omits the difficulty attribute.
const defaultDifficulty = 3

// ParseHTMLExport parses an exercise library HTML export into catalog records.
//
// The expected markup is one <article class="exercise"> per exercise with an
// <h2> name, a <dl> of attributes, and optional instruction/safety sections.
// Unparseable articles are skipped and reported in the returned error slice so
// that one malformed entry does not abort a whole import.
func ParseHTMLExport(r io.Reader) ([]Exercise, []error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, []error{fmt.Errorf("parse HTML document: %w", err)}
	}

	var (
		exercises []Exercise
		errs      []error
	)
	doc.Find("article.exercise").Each(func(i int, article *goquery.Selection) {
		ex, err := parseExerciseArticle(article)
		if err != nil {
			errs = append(errs, fmt.Errorf("exercise article %d: %w", i, err))
			return
		}
		exercises = append(exercises, ex)
	})
	return exercises, errs
}

func parseExerciseArticle(article *goquery.Selection) (Exercise, error) {
	name := strings.TrimSpace(article.Find("h2").First().Text())
	if name == "" {
		return Exercise{}, fmt.Errorf("missing exercise name")
	}

	attrs := parseDefinitionList(article.Find("dl").First())

	primaryMuscle := attrs["primary muscle"]
	if primaryMuscle == "" {
		return Exercise{}, fmt.Errorf("missing primary muscle for %q", name)
	}

	difficulty := defaultDifficulty
	if raw, exists := article.Attr("data-difficulty"); exists {
		parsed, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Exercise{}, fmt.Errorf("parse difficulty for %q: %w", name, err)
		}
		difficulty = parsed
	}
	if difficulty < 1 || difficulty > 5 {
		return Exercise{}, fmt.Errorf("difficulty %d out of range for %q", difficulty, name)
	}

	var tags []string
	article.Find("ul.tags li").Each(func(_ int, li *goquery.Selection) {
		if tag := strings.ToLower(strings.TrimSpace(li.Text())); tag != "" {
			tags = append(tags, tag)
		}
	})

	exerciseType := ExerciseType(strings.ToLower(attrs["type"]))
	if exerciseType == "" {
		exerciseType = TypeCompound
	}

	return Exercise{
		ID:               0,
		Name:             name,
		PrimaryMuscle:    strings.ToLower(primaryMuscle),
		SecondaryMuscles: SplitList(strings.ToLower(attrs["secondary muscles"])),
		Equipment:        strings.ToLower(defaultString(attrs["equipment"], "bodyweight")),
		BodyPart:         strings.ToLower(attrs["body part"]),
		Category:         strings.ToLower(defaultString(attrs["category"], "strength")),
		Type:             exerciseType,
		DifficultyLevel:  difficulty,
		Instructions:     collapseWhitespace(article.Find("section.instructions").Text()),
		SafetyNotes:      collapseWhitespace(article.Find("section.safety").Text()),
		Tags:             tags,
	}, nil
}

// parseDefinitionList maps lowercased <dt> labels to their <dd> values.
func parseDefinitionList(dl *goquery.Selection) map[string]string {
	attrs := make(map[string]string)
	dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.NextFiltered("dd").Text())
		if label != "" {
			attrs[label] = value
		}
	})
	return attrs
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
