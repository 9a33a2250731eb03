package plan

// Session template construction. Each structure type maps a week's sessions to
// named templates carrying the movement patterns and target muscles the
// composer selects from.

var fullBodyPatterns = []MovementPattern{
	PatternSquat, PatternHinge, PatternPushHorizontal, PatternPullHorizontal,
	PatternPushVertical, PatternPullVertical, PatternCore,
}

var fullBodyMuscles = []string{"quadriceps", "hamstrings", "glutes", "chest", "back", "shoulders", "core"}

// buildWeekTemplates returns one template per session for a single week. The
// same week layout repeats across the plan; periodization varies the dosage,
// not the session shapes.
func buildWeekTemplates(strategy Strategy, sessionsPerWeek int) []SessionTemplate {
	var templates []SessionTemplate
	switch strategy.SessionStructure.Type {
	case StructureFullBody:
		templates = fullBodyTemplates(sessionsPerWeek)
	case StructureFullBodyVaried:
		templates = fullBodyVariedTemplates(sessionsPerWeek)
	case StructureUpperLower:
		templates = upperLowerTemplates(sessionsPerWeek)
	default:
		templates = bodyPartSplitTemplates(sessionsPerWeek)
	}

	conditioning := strategy.PrimaryObjective == ObjectiveLoseFat || strategy.PrimaryObjective == ObjectiveEndurance
	for i := range templates {
		templates[i].ExerciseCount = strategy.SessionStructure.ExercisesPerSession
		templates[i].Intensity = strategy.Intensity.Level
		if conditioning {
			templates[i].Patterns = append(templates[i].Patterns, PatternCardio)
			templates[i].TargetMuscles = append(templates[i].TargetMuscles, "cardiovascular system")
		}
	}
	return templates
}

func fullBodyTemplates(sessionsPerWeek int) []SessionTemplate {
	names := []string{"Full Body A", "Full Body B"}
	templates := make([]SessionTemplate, 0, sessionsPerWeek)
	for i := 0; i < sessionsPerWeek; i++ {
		templates = append(templates, SessionTemplate{
			Name:          names[i%len(names)],
			Focus:         "full_body",
			Patterns:      append([]MovementPattern{}, fullBodyPatterns...),
			TargetMuscles: append([]string{}, fullBodyMuscles...),
		})
	}
	return templates
}

func fullBodyVariedTemplates(sessionsPerWeek int) []SessionTemplate {
	variants := []SessionTemplate{
		{
			Name:  "Full Body - Squat Focus",
			Focus: "full_body",
			Patterns: []MovementPattern{
				PatternSquat, PatternLunge, PatternPushHorizontal, PatternPullHorizontal, PatternCore,
			},
			TargetMuscles: []string{"quadriceps", "glutes", "chest", "back", "core"},
		},
		{
			Name:  "Full Body - Hinge Focus",
			Focus: "full_body",
			Patterns: []MovementPattern{
				PatternHinge, PatternPushVertical, PatternPullVertical, PatternCarry, PatternCore,
			},
			TargetMuscles: []string{"hamstrings", "glutes", "shoulders", "lats", "core"},
		},
		{
			Name:  "Full Body - Balance",
			Focus: "full_body",
			Patterns: []MovementPattern{
				PatternLunge, PatternPushHorizontal, PatternPullHorizontal, PatternRotation, PatternGait,
			},
			TargetMuscles: []string{"quadriceps", "chest", "back", "obliques", "calves"},
		},
	}

	templates := make([]SessionTemplate, 0, sessionsPerWeek)
	for i := 0; i < sessionsPerWeek; i++ {
		v := variants[i%len(variants)]
		v.Patterns = append([]MovementPattern{}, v.Patterns...)
		v.TargetMuscles = append([]string{}, v.TargetMuscles...)
		templates = append(templates, v)
	}
	return templates
}

func upperLowerTemplates(sessionsPerWeek int) []SessionTemplate {
	upper := SessionTemplate{
		Name:  "Upper Body",
		Focus: "upper",
		Patterns: []MovementPattern{
			PatternPushHorizontal, PatternPullHorizontal, PatternPushVertical, PatternPullVertical, PatternCarry,
		},
		TargetMuscles: []string{"chest", "back", "shoulders", "lats", "biceps", "triceps"},
	}
	lower := SessionTemplate{
		Name:  "Lower Body",
		Focus: "lower",
		Patterns: []MovementPattern{
			PatternSquat, PatternHinge, PatternLunge, PatternCore,
		},
		TargetMuscles: []string{"quadriceps", "hamstrings", "glutes", "calves", "core"},
	}

	templates := make([]SessionTemplate, 0, sessionsPerWeek)
	for i := 0; i < sessionsPerWeek; i++ {
		v := upper
		if i%2 == 1 {
			v = lower
		}
		v.Patterns = append([]MovementPattern{}, v.Patterns...)
		v.TargetMuscles = append([]string{}, v.TargetMuscles...)
		templates = append(templates, v)
	}
	return templates
}

func bodyPartSplitTemplates(sessionsPerWeek int) []SessionTemplate {
	split := []SessionTemplate{
		{
			Name:          "Push Day",
			Focus:         "push",
			Patterns:      []MovementPattern{PatternPushHorizontal, PatternPushVertical},
			TargetMuscles: []string{"chest", "shoulders", "triceps"},
		},
		{
			Name:          "Pull Day",
			Focus:         "pull",
			Patterns:      []MovementPattern{PatternPullHorizontal, PatternPullVertical, PatternCarry},
			TargetMuscles: []string{"back", "lats", "biceps", "forearms"},
		},
		{
			Name:          "Leg Day",
			Focus:         "legs",
			Patterns:      []MovementPattern{PatternSquat, PatternHinge, PatternLunge},
			TargetMuscles: []string{"quadriceps", "hamstrings", "glutes", "calves"},
		},
		{
			Name:          "Core & Conditioning",
			Focus:         "core",
			Patterns:      []MovementPattern{PatternCore, PatternRotation, PatternGait},
			TargetMuscles: []string{"core", "obliques", "full body"},
		},
		{
			Name:          "Full Body",
			Focus:         "full_body",
			Patterns:      []MovementPattern{PatternSquat, PatternHinge, PatternPushHorizontal, PatternPullHorizontal},
			TargetMuscles: []string{"quadriceps", "glutes", "chest", "back"},
		},
	}

	templates := make([]SessionTemplate, 0, sessionsPerWeek)
	for i := 0; i < sessionsPerWeek; i++ {
		v := split[i%len(split)]
		v.Patterns = append([]MovementPattern{}, v.Patterns...)
		v.TargetMuscles = append([]string{}, v.TargetMuscles...)
		templates = append(templates, v)
	}
	return templates
}
