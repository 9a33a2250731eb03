package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleExport = `<!doctype html>
<html><body>
<article class="exercise" data-difficulty="2">
  <h2>Incline Dumbbell Press</h2>
  <dl>
    <dt>Primary muscle</dt><dd>Chest</dd>
    <dt>Secondary muscles</dt><dd>Shoulders,Triceps</dd>
    <dt>Equipment</dt><dd>Dumbbell</dd>
    <dt>Body part</dt><dd>Chest</dd>
    <dt>Category</dt><dd>Strength</dd>
    <dt>Type</dt><dd>Freeweight</dd>
  </dl>
  <ul class="tags"><li>Home</li><li>Hypertrophy</li></ul>
  <section class="instructions">
    Set the bench to a slight incline.
    Press the dumbbells up and together.
  </section>
  <section class="safety">Keep your feet planted.</section>
</article>
<article class="exercise">
  <h2>Mountain Climber</h2>
  <dl>
    <dt>Primary muscle</dt><dd>Core</dd>
    <dt>Category</dt><dd>Cardio</dd>
    <dt>Type</dt><dd>Bodyweight</dd>
  </dl>
</article>
<article class="exercise">
  <h2></h2>
  <dl><dt>Primary muscle</dt><dd>Back</dd></dl>
</article>
<article class="exercise" data-difficulty="9">
  <h2>Impossible Move</h2>
  <dl><dt>Primary muscle</dt><dd>Back</dd></dl>
</article>
</body></html>`

func TestParseHTMLExport(t *testing.T) {
	exercises, errs := ParseHTMLExport(strings.NewReader(sampleExport))

	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2 (missing name, out-of-range difficulty): %v", len(errs), errs)
	}
	if len(exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(exercises))
	}

	want := Exercise{
		Name:             "Incline Dumbbell Press",
		PrimaryMuscle:    "chest",
		SecondaryMuscles: []string{"shoulders", "triceps"},
		Equipment:        "dumbbell",
		BodyPart:         "chest",
		Category:         "strength",
		Type:             TypeFreeweight,
		DifficultyLevel:  2,
		Instructions:     "Set the bench to a slight incline. Press the dumbbells up and together.",
		SafetyNotes:      "Keep your feet planted.",
		Tags:             []string{"home", "hypertrophy"},
	}
	if diff := cmp.Diff(want, exercises[0]); diff != "" {
		t.Errorf("first exercise mismatch (-want +got):\n%s", diff)
	}

	climber := exercises[1]
	if climber.DifficultyLevel != defaultDifficulty {
		t.Errorf("difficulty = %d, want default %d", climber.DifficultyLevel, defaultDifficulty)
	}
	if climber.Equipment != "bodyweight" {
		t.Errorf("equipment = %q, want bodyweight fallback", climber.Equipment)
	}
	if climber.Category != "cardio" {
		t.Errorf("category = %q, want cardio", climber.Category)
	}
}

func TestParseHTMLExport_empty(t *testing.T) {
	exercises, errs := ParseHTMLExport(strings.NewReader("<html><body><p>No exercises here.</p></body></html>"))
	if len(errs) != 0 {
		t.Errorf("got %d errors, want 0", len(errs))
	}
	if len(exercises) != 0 {
		t.Errorf("got %d exercises, want 0", len(exercises))
	}
}
