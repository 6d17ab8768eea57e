package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestChatAssistantAsk(t *testing.T) {
	stub := &stubGenerator{response: "Recruiter Ana has 3 active emitters."}
	assistant := NewChatAssistant(stub)

	answer := assistant.Ask(context.Background(), "How many active emitters does Ana have?", "Ana: 3 active emitters")

	assert.Equal(t, "Recruiter Ana has 3 active emitters.", answer)
	assert.Contains(t, stub.lastPrompt, "Ana: 3 active emitters")
	assert.Contains(t, stub.lastPrompt, "How many active emitters does Ana have?")
}

func TestChatAssistantFallsBackOnError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	assistant := NewChatAssistant(stub)

	answer := assistant.Ask(context.Background(), "anything", "data")
	assert.Equal(t, ChatFallbackMessage, answer)
}

func TestChatAssistantFallsBackWithoutGenerator(t *testing.T) {
	assistant := NewChatAssistant(nil)
	assert.Equal(t, ChatFallbackMessage, assistant.Ask(context.Background(), "q", "ctx"))
}
