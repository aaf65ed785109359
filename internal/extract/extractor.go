// Package extract turns POP PDF documents into normalized policy facts:
// a document-understanding provider produces a loose JSON object, and the
// normalizer converts it into a presence-tracked typed record.
package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/starcasualty/popmatch/internal/config"
	"github.com/starcasualty/popmatch/pkg/anthropic"
	"github.com/starcasualty/popmatch/pkg/gemini"
)

// Extractor produces a loosely-structured JSON object from a local PDF.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) (map[string]any, error)
}

// New creates an Extractor based on config.
func New(cfg config.ExtractionConfig) (Extractor, error) {
	switch cfg.Provider {
	case "gemini", "":
		if cfg.GeminiKey == "" {
			return nil, eris.New("extract: gemini provider requires gemini_api_key")
		}
		return &geminiExtractor{
			client: gemini.NewClient(cfg.GeminiKey, cfg.GeminiModel, cfg.RequestsPerMinute),
		}, nil
	case "claude":
		if cfg.AnthropicKey == "" {
			return nil, eris.New("extract: claude provider requires anthropic_api_key")
		}
		return &claudeExtractor{
			client:    anthropic.NewClient(cfg.AnthropicKey),
			model:     cfg.AnthropicModel,
			pdfToText: newPdfToText(cfg.PdfToTextPath),
		}, nil
	default:
		return nil, eris.Errorf("extract: unknown provider %q", cfg.Provider)
	}
}

// geminiExtractor sends the PDF itself to Gemini in JSON response mode.
type geminiExtractor struct {
	client *gemini.Client
}

func (g *geminiExtractor) Extract(ctx context.Context, pdfPath string) (map[string]any, error) {
	return g.client.ExtractDocument(ctx, pdfPath, extractionPrompt)
}

// claudeExtractor renders the PDF to text locally, then asks Claude for
// schema-conforming JSON over the text layer.
type claudeExtractor struct {
	client    anthropic.Client
	model     string
	pdfToText *pdfToText
}

const claudeSystemText = "You extract structured data from auto insurance declarations pages. Return only a valid JSON object matching the requested schema."

func (c *claudeExtractor) Extract(ctx context.Context, pdfPath string) (map[string]any, error) {
	text, err := c.pdfToText.run(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	temp := 0.1
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   4096,
		System:      claudeSystemText,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: extractionPrompt + "\n\nDocument text:\n" + text},
		},
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(c.model, "extract")

	if len(resp.Content) == 0 {
		return nil, eris.New("extract: claude returned no content")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(stripFences(resp.Content[0].Text)), &out); err != nil {
		return nil, eris.Wrap(err, "extract: decode claude JSON")
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
