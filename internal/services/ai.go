package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
	model  string
}

// MemberProductivity is the per-member input of an AI summary.
type MemberProductivity struct {
	Name               string  `json:"name"`
	Finished           int     `json:"finished"`
	Pending            int     `json:"pending"`
	Roll               int     `json:"roll"`
	Cancel             int     `json:"cancel"`
	AvgTimeConsumption float64 `json:"avg_time_consumption"`
	AvgDifficulty      float64 `json:"avg_difficulty"`
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

// NewAIServiceWithConfig builds the service from a full client config, e.g.
// to point it at another base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// SummarizeProductivity asks the model for a short written report on the
// team's task statistics.
func (s *AIService) SummarizeProductivity(ctx context.Context, teamName string, members []MemberProductivity) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	stats, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode team statistics: %w", err)
	}

	prompt := fmt.Sprintf(`You are a team productivity analyst. Write a short report for the manager of the team %q.

Per-member task statistics (JSON):
%s

Field meanings:
- finished / pending / roll / cancel: number of tasks in each status ("roll" means carried over to the next week)
- avg_time_consumption, avg_difficulty: averages over finished tasks on a 1-10 scale, 0 when nothing is finished

Write 3 to 5 short paragraphs in plain text:
- overall completion rate and workload balance
- members who may be overloaded or blocked (many roll or pending tasks)
- one or two concrete suggestions for next week
Do not invent numbers that are not in the data.`, teamName, stats)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
