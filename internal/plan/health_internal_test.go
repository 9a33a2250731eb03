package plan

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/myrjola/planfit/internal/errors"
	"github.com/myrjola/planfit/internal/testhelpers"
)

// fakeClassifier returns canned considerations or a canned error.
type fakeClassifier struct {
	considerations []HealthConsideration
	err            error
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) ([]HealthConsideration, error) {
	return f.considerations, f.err
}

func TestHealthAnalyzer_rules(t *testing.T) {
	analyzer := newHealthAnalyzer(nil, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	testCases := []struct {
		name      string
		note      string
		wantAreas []string
	}{
		{"empty note yields nothing", "", nil},
		{"knee pain", "knee pain when running", []string{"knee"}},
		{"back maps to spine", "lower back tightness", []string{"spine"}},
		{"multiple areas in fixed order", "shoulder impingement and a bad knee", []string{"knee", "shoulder"}},
		{"case insensitive", "KNEE surgery last year", []string{"knee"}},
		{"unrelated note", "I prefer morning workouts", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzer.Analyze(t.Context(), UserProfile{HealthNote: tc.note}, "")

			var areas []string
			for _, c := range got {
				areas = append(areas, c.AffectedArea)
			}
			if diff := cmp.Diff(tc.wantAreas, areas); diff != "" {
				t.Errorf("affected areas mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHealthAnalyzer_rulesEmitValidRestrictions(t *testing.T) {
	analyzer := newHealthAnalyzer(nil, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	note := "knee back shoulder hip ankle wrist neck elbow"
	considerations := analyzer.Analyze(t.Context(), UserProfile{HealthNote: note}, "")
	if len(considerations) != len(bodyAreaKeywords) {
		t.Fatalf("got %d considerations, want %d", len(considerations), len(bodyAreaKeywords))
	}
	for _, c := range considerations {
		if len(c.Restrictions) == 0 {
			t.Errorf("consideration for %s has no restrictions", c.AffectedArea)
		}
		for _, r := range c.Restrictions {
			if !validRestrictions[r] {
				t.Errorf("consideration for %s emits invalid restriction %q", c.AffectedArea, r)
			}
		}
	}
}

func TestHealthAnalyzer_classifierOutputIsValidated(t *testing.T) {
	classifier := &fakeClassifier{
		considerations: []HealthConsideration{
			{
				Type:         ConsiderationJointLimitation,
				AffectedArea: "knee",
				Restrictions: []string{RestrictionHighImpact, "made_up_tag"},
			},
			{
				Type:         ConsiderationMobilityIssue,
				AffectedArea: "hip",
				Restrictions: []string{"another_invalid_tag"},
			},
		},
	}
	analyzer := newHealthAnalyzer(classifier, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	got := analyzer.Analyze(t.Context(), UserProfile{HealthNote: "knee trouble"}, "")
	if len(got) != 1 {
		t.Fatalf("got %d considerations, want 1 (invalid-only consideration dropped)", len(got))
	}
	want := []string{RestrictionHighImpact}
	if diff := cmp.Diff(want, got[0].Restrictions); diff != "" {
		t.Errorf("restrictions mismatch (-want +got):\n%s", diff)
	}
}

func TestHealthAnalyzer_classifierFailureFallsBackToRules(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model unavailable")}
	analyzer := newHealthAnalyzer(classifier, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	got := analyzer.Analyze(t.Context(), UserProfile{HealthNote: "knee pain"}, "")
	if len(got) != 1 || got[0].AffectedArea != "knee" {
		t.Errorf("fallback result = %+v, want one knee consideration", got)
	}
}
