package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// ChatFallbackMessage is returned whenever the language-model call fails; the
// assistant degrades to this fixed apology instead of surfacing an error.
const ChatFallbackMessage = "Sorry, I can't answer right now. Please try again in a few minutes."

// ContentGenerator abstracts the language-model call so the assistant can be
// tested without network access.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator wraps the Google GenAI client for simple prompt-based calls.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates a generator for the Gemini API backend. The API
// key comes from GEMINI_API_KEY.
func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiGenerator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt to Gemini and returns the first textual response.
func (g *GeminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// ChatAssistant answers recruiter questions about their emitter data.
type ChatAssistant struct {
	generator ContentGenerator
}

func NewChatAssistant(generator ContentGenerator) *ChatAssistant {
	return &ChatAssistant{generator: generator}
}

// Ask forwards the question plus a textual summary of the caller's emitter
// data to the language model. It never fails: any error degrades to the fixed
// apology message.
func (a *ChatAssistant) Ask(ctx context.Context, question, contextSummary string) string {
	if a == nil || a.generator == nil {
		return ChatFallbackMessage
	}

	prompt := buildChatPrompt(question, contextSummary)

	answer, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Chat assistant error: %v", err)
		return ChatFallbackMessage
	}

	return answer
}

func buildChatPrompt(question, contextSummary string) string {
	var b strings.Builder
	b.WriteString("You are an assistant for a talent-recruitment agency that manages live-streaming emitters.\n")
	b.WriteString("Answer the question using only the emitter data below. Be concise.\n\n")
	b.WriteString("Emitter data:\n")
	b.WriteString(contextSummary)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
