package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"portfolio_backend/platform/config"
	"portfolio_backend/platform/logger"
)

// Gemini implements Generator and StructuredGenerator over the Gemini API.
// A nil inner client means the collaborator is disabled; every call then
// returns ErrUnavailable without touching the network.
type Gemini struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewGemini builds the Gemini client. A missing API key is not an error:
// the returned instance reports ErrUnavailable on use, which the chat layer
// maps to the localized "feature disabled" message.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) (*Gemini, error) {
	g := &Gemini{model: cfg.GetGeminiModel(), log: log}
	if !cfg.IsGeminiEnabled() {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	g.client = client
	return g, nil
}

// Enabled reports whether the collaborator is configured.
func (g *Gemini) Enabled() bool {
	return g != nil && g.client != nil
}

// GenerateText runs a single text-generation call.
func (g *Gemini) GenerateText(ctx context.Context, req Request) (string, error) {
	if !g.Enabled() {
		return "", ErrUnavailable
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, buildContents(req), buildConfig(req, nil))
	if err != nil {
		g.logCall("generate_text", start, err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.logCall("generate_text", start, ErrMalformedResponse)
		return "", ErrMalformedResponse
	}

	g.logCall("generate_text", start, nil)
	return text, nil
}

// GenerateJSON runs a structured call with a response schema and unmarshals
// the payload into out.
func (g *Gemini) GenerateJSON(ctx context.Context, req Request, schema *genai.Schema, out any) error {
	if !g.Enabled() {
		return ErrUnavailable
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, buildContents(req), buildConfig(req, schema))
	if err != nil {
		g.logCall("generate_json", start, err)
		return fmt.Errorf("gemini generate json: %w", err)
	}

	payload := strings.TrimSpace(resp.Text())
	if payload == "" {
		g.logCall("generate_json", start, ErrMalformedResponse)
		return ErrMalformedResponse
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		g.logCall("generate_json", start, err)
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	g.logCall("generate_json", start, nil)
	return nil
}

func (g *Gemini) logCall(action string, start time.Time, err error) {
	if g.log == nil {
		return
	}
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		g.log.AICall(action, latency, false, err.Error())
		return
	}
	g.log.AICall(action, latency, true, "")
}

func buildContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := genai.RoleUser
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(turn.Text)},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(req.Prompt)},
	})
	return contents
}

func buildConfig(req Request, schema *genai.Schema) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.Persona != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.Persona)},
		}
	}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}
	return cfg
}

var _ Generator = (*Gemini)(nil)
var _ StructuredGenerator = (*Gemini)(nil)
