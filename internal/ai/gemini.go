package ai

import (
	"context"
	"errors"

	genai "google.golang.org/genai"

	"github.com/flashdeck/flashdeck/internal/raster"
)

const instructionPrompt = `You are a study assistant. From the provided material, extract the key concepts and produce flashcards.
Each flashcard has:
- "term": the concept name, short
- "definition": a clear, concise definition
- "mnemonic": a short memory aid for the term
Return ONLY a JSON array of these objects, nothing else.`

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model}, nil
}

// deckSchema declares the expected result shape so the model is steered
// toward a bare array of three-field card objects.
var deckSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"term":       {Type: genai.TypeString},
			"definition": {Type: genai.TypeString},
			"mnemonic":   {Type: genai.TypeString},
		},
		Required: []string{"term", "definition", "mnemonic"},
	},
}

func (g *Gemini) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	content := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	res, err := g.client.Models.GenerateContent(ctx, g.model, content, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   deckSchema,
	})
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func (g *Gemini) FromText(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, []*genai.Part{
		{Text: instructionPrompt},
		{Text: text},
	})
}

func (g *Gemini) FromImages(ctx context.Context, images []raster.PageImage) (string, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	parts = append(parts, &genai.Part{Text: instructionPrompt})
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
	}
	return g.generate(ctx, parts)
}
