package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"compostbot/internal/domain"
)

// Query answers a user question from the persisted index: optionally
// rewrites it against session history, embeds it, retrieves the top-k
// chunks and asks the chat model with the retrieved context.
type Query struct {
	objects   domain.ObjectStore
	embedder  domain.Embedder
	chat      domain.ChatModel
	sessions  domain.SessionStore
	artifacts ArtifactConfig
	topK      int
}

// NewQuery creates the query pipeline.
func NewQuery(objects domain.ObjectStore, embedder domain.Embedder, chat domain.ChatModel,
	sessions domain.SessionStore, artifacts ArtifactConfig, topK int) *Query {
	if topK <= 0 {
		topK = 4
	}
	return &Query{
		objects:   objects,
		embedder:  embedder,
		chat:      chat,
		sessions:  sessions,
		artifacts: artifacts,
		topK:      topK,
	}
}

// Answer runs the query pipeline. Session history is consulted only when a
// session id is given; a blank question is domain.ErrNoQuestion.
func (s *Query) Answer(ctx context.Context, question, sessionID string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrNoQuestion
	}

	var history []domain.ChatTurn
	if sessionID != "" {
		history = s.sessions.History(sessionID)
	}

	// First turn of a session keeps the question as-is.
	standalone := question
	if len(history) > 0 {
		rewritten, err := s.rewrite(ctx, question, history)
		if err != nil {
			return "", err
		}
		standalone = rewritten
	}

	vectors, err := s.embedder.Embed(ctx, []string{standalone})
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	idx, err := loadIndex(ctx, s.objects, s.artifacts, s.embedder.Dimension())
	if err != nil {
		return "", err
	}
	results := idx.Search(vectors[0], s.topK)
	logger.Infof("Query: retrieved %d chunks for %q", len(results), standalone)

	answer, err := s.chat.Complete(ctx, buildPrompt(standalone, results))
	if err != nil {
		return "", err
	}
	if sessionID != "" {
		s.sessions.Append(sessionID, domain.ChatTurn{Question: question, Answer: answer})
	}
	return answer, nil
}

// rewrite turns a follow-up question into a standalone one using the chat
// model and the session's prior turns.
func (s *Query) rewrite(ctx context.Context, question string, history []domain.ChatTurn) (string, error) {
	messages := []domain.ChatMessage{{
		Role: "system",
		Content: "Rewrite the user's follow-up question as a single standalone question, " +
			"using the conversation for context. Reply with the rewritten question only.",
	}}
	for _, turn := range history {
		messages = append(messages,
			domain.ChatMessage{Role: "user", Content: turn.Question},
			domain.ChatMessage{Role: "assistant", Content: turn.Answer},
		)
	}
	messages = append(messages, domain.ChatMessage{Role: "user", Content: question})

	rewritten, err := s.chat.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("rewriting question: %w", err)
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}

// buildPrompt assembles the retrieved context and the question. An empty
// result set still produces a valid prompt with no context.
func buildPrompt(question string, results []domain.SearchResult) []domain.ChatMessage {
	var sb strings.Builder
	sb.WriteString("You are a helpful assistant answering questions about composting.")
	if len(results) > 0 {
		sb.WriteString(" Use the following context to answer:\n\n")
		for _, r := range results {
			sb.WriteString(r.Chunk.Content)
			sb.WriteString("\n\n")
		}
	}
	return []domain.ChatMessage{
		{Role: "system", Content: sb.String()},
		{Role: "user", Content: fmt.Sprintf("respond as succinctly as possible. %s", question)},
	}
}
