// Package catalog owns the exercise catalog: the exercise records, their
// persistence, and importing new exercises from external sources.
package catalog

// ExerciseType classifies how an exercise loads the body.
type ExerciseType string

const (
	TypeCompound   ExerciseType = "compound"
	TypeIsolation  ExerciseType = "isolation"
	TypeBodyweight ExerciseType = "bodyweight"
	TypeCardio     ExerciseType = "cardio"
	TypePlyometric ExerciseType = "plyometric"
	TypeFreeweight ExerciseType = "freeweight"
	TypeMachine    ExerciseType = "machine"
)

// Exercise is a single catalog record. The plan engine treats it as read-only.
type Exercise struct {
	ID               int
	Name             string
	PrimaryMuscle    string
	SecondaryMuscles []string
	Equipment        string
	BodyPart         string
	Category         string
	Type             ExerciseType
	DifficultyLevel  int
	Instructions     string
	SafetyNotes      string
	Tags             []string
}

// Document renders the exercise as free text for embedding. The field order is
// stable so that stored embeddings remain comparable across runs.
func (e Exercise) Document() string {
	doc := e.Name + ". " + e.Category + " exercise targeting " + e.PrimaryMuscle
	for _, m := range e.SecondaryMuscles {
		doc += ", " + m
	}
	doc += ". Equipment: " + e.Equipment + ". " + e.Instructions
	if e.SafetyNotes != "" {
		doc += " " + e.SafetyNotes
	}
	for _, t := range e.Tags {
		doc += " " + t
	}
	return doc
}
