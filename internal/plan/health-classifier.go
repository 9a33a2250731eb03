package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// openAIHealthClassifier classifies free-text health notes with a structured
// OpenAI completion. Its output goes through the same vocabulary validation as
// any other classifier, so a hallucinated tag can never reach filtering.
type openAIHealthClassifier struct {
	client openai.Client
}

// NewOpenAIHealthClassifier creates a classifier backed by the OpenAI API.
func NewOpenAIHealthClassifier(apiKey string) HealthClassifier {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openAIHealthClassifier{client: client}
}

type healthClassificationResponse struct {
	Considerations []struct {
		Type          string   `json:"type"`
		AffectedArea  string   `json:"affected_area"`
		Restrictions  []string `json:"restrictions"`
		Modifications []string `json:"modifications"`
	} `json:"considerations"`
}

// healthConsiderationSchema constrains the model to the closed vocabularies.
func healthConsiderationSchema() map[string]any {
	tags := make([]string, 0, len(validRestrictions))
	for tag := range validRestrictions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	restrictionEnum := make([]any, 0, len(tags))
	for _, tag := range tags {
		restrictionEnum = append(restrictionEnum, tag)
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"considerations"},
		"properties": map[string]any{
			"considerations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"type", "affected_area", "restrictions", "modifications"},
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{
								ConsiderationJointLimitation,
								ConsiderationInjuryHistory,
								ConsiderationMobilityIssue,
							},
						},
						"affected_area": map[string]any{
							"type":        "string",
							"description": "Body area such as knee, spine, shoulder, hip",
						},
						"restrictions": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string", "enum": restrictionEnum},
						},
						"modifications": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"additionalProperties": false,
				},
			},
		},
		"additionalProperties": false,
	}
}

const healthClassifierPrompt = `You are classifying a gym member's health note into structured
training considerations. Only report issues the note actually mentions. Use the restriction
vocabulary exactly; do not invent tags. Return an empty list when the note contains no
health issues relevant to exercise selection.`

// Classify implements HealthClassifier.
func (c *openAIHealthClassifier) Classify(ctx context.Context, note string) ([]HealthConsideration, error) {
	if note == "" {
		return nil, nil
	}

	schemaParam := shared.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "health_considerations",
		Description: openai.String("Structured training restrictions derived from a health note"),
		Schema:      healthConsiderationSchema(),
		Strict:      openai.Bool(true),
	}

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(healthClassifierPrompt),
			openai.UserMessage(note),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: openai.ChatModelGPT4o,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	var response healthClassificationResponse
	if err = json.Unmarshal([]byte(chat.Choices[0].Message.Content), &response); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}

	considerations := make([]HealthConsideration, 0, len(response.Considerations))
	for _, c := range response.Considerations {
		considerations = append(considerations, HealthConsideration{
			Type:          c.Type,
			AffectedArea:  c.AffectedArea,
			Restrictions:  c.Restrictions,
			Modifications: c.Modifications,
		})
	}
	return considerations, nil
}
