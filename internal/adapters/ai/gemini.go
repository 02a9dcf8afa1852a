package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/the-articles/articles-api/internal/domain"
)

// GeminiClient implements domain.AIClient on Vertex AI (Gemini), asking
// for JSON output constrained by an explicit response schema.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, projectID, location, modelName string) (*GeminiClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("projectID and location are required for the Gemini client")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

var draftAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":       {Type: genai.TypeInteger},
		"tone":        {Type: genai.TypeString},
		"strengths":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"suggestions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"score", "tone", "strengths", "suggestions"},
}

var trendsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"topics": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"tag":      {Type: genai.TypeString},
					"summary":  {Type: genai.TypeString},
					"momentum": {Type: genai.TypeString},
				},
				Required: []string{"tag", "summary", "momentum"},
			},
		},
	},
	Required: []string{"topics"},
}

// AnalyzeDraft implements domain.AIClient.
func (g *GeminiClient) AnalyzeDraft(ctx context.Context, draft domain.ArticleDraft) (*domain.DraftAnalysis, error) {
	raw, err := g.generateJSON(ctx, editorialSystemPrompt, BuildDraftPrompt(draft), draftAnalysisSchema)
	if err != nil {
		return nil, err
	}

	var out domain.DraftAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode draft analysis: %w", err)
	}
	return &out, nil
}

// TrendingTopics implements domain.AIClient.
func (g *GeminiClient) TrendingTopics(ctx context.Context, headlines []string) ([]domain.Topic, error) {
	raw, err := g.generateJSON(ctx, trendsSystemPrompt, BuildTrendsPrompt(headlines), trendsSchema)
	if err != nil {
		return nil, err
	}

	var out struct {
		Topics []domain.Topic `json:"topics"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	return out.Topics, nil
}

func (g *GeminiClient) generateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) ([]byte, error) {
	temp := float32(0.4)
	topP := float32(0.9)
	outputTokens := int32(2048)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamDegraded, err)
	}

	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty model response", domain.ErrUpstreamDegraded)
	}
	return []byte(text), nil
}
