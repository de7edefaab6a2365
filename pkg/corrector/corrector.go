package corrector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// promptContextChars caps how much reference material is injected into the
// correction prompt.
const promptContextChars = 2000

// Corrector fixes transcription errors through a locally hosted language
// model, reached over Ollama's OpenAI-compatible API. Correction is best
// effort: every failure falls back to the uncorrected text.
type Corrector struct {
	client     *openai.Client
	model      string
	refContext string
}

// New creates a corrector talking to an Ollama host (e.g.
// "http://localhost:11434"). refContext is optional reference-document text
// used to steer terminology; only its first 2000 characters reach the
// prompt.
func New(host, model, refContext string) *Corrector {
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(host, "/") + "/v1"

	if len(refContext) > promptContextChars {
		cut := promptContextChars
		for cut > 0 && !utf8.RuneStart(refContext[cut]) {
			cut--
		}
		refContext = refContext[:cut]
	}

	return &Corrector{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		refContext: refContext,
	}
}

// Ping checks that the model host is reachable.
func (c *Corrector) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	return nil
}

// Correct asks the model to fix transcription errors in one segment's text.
// On any failure the original text is returned unchanged.
func (c *Corrector) Correct(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.buildPrompt(text),
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		log.Printf("⚠️  Error improving transcription: %v. Returning original text.", err)
		return text
	}
	if len(resp.Choices) == 0 {
		log.Printf("⚠️  Correction model returned no choices. Returning original text.")
		return text
	}

	corrected := strings.TrimSpace(resp.Choices[0].Message.Content)
	if corrected == "" {
		return text
	}
	return corrected
}

// buildPrompt fills the fixed instruction template with the optional
// reference excerpt and the raw segment text.
func (c *Corrector) buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("I have a transcription of a lecture that may contain inaccuracies. ")
	b.WriteString("Please correct any errors, fill in any gaps where words don't make sense, and ensure all technical terminology is accurate. ")

	if strings.TrimSpace(c.refContext) != "" {
		b.WriteString("Use this reference material to help with technical terms and context:\n")
		b.WriteString(c.refContext)
		b.WriteString("\n\n")
	}

	b.WriteString("Original transcription:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nPlease output only the improved transcription without explanations or notes.")
	return b.String()
}
