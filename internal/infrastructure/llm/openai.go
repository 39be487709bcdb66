package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
)

// Failure kinds callers can branch on; everything else is a wrapped
// transport error.
var (
	ErrNoChoices   = errors.New("llm: empty completion response")
	ErrBadResponse = errors.New("llm: malformed summary payload")
)

// SummaryClient asks an OpenAI model for a structured article summary.
// Callers substitute domain.FallbackSummary on any returned error so one
// bad call never aborts a cycle.
type SummaryClient struct {
	client openai.Client
	model  string
}

var _ ports.Summarizer = (*SummaryClient)(nil)

// NewSummaryClient builds a client from configuration.
func NewSummaryClient(apiKey, model string) *SummaryClient {
	return &SummaryClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Summarize requests a conclusion plus emoji-marked findings and validates
// the structure of the response.
func (c *SummaryClient) Summarize(ctx context.Context, title, abstract string) (domain.Summary, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(buildPrompt(title, abstract)),
					},
				},
			},
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0.4),
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize request: %w", err)
	}
	if len(response.Choices) == 0 {
		return domain.Summary{}, ErrNoChoices
	}

	return parseSummary(response.Choices[0].Message.Content)
}

func buildPrompt(title, abstract string) string {
	var sb strings.Builder
	sb.WriteString("Summarize the endocrinology article.\n\n")
	sb.WriteString("Title: " + title + "\n")
	sb.WriteString("Abstract: " + abstract + "\n\n")
	sb.WriteString("Respond with raw JSON only, no prose, in this format:\n")
	sb.WriteString(`{"conclusion": "short one-sentence conclusion", "findings": ["emoji + finding 1", "emoji + finding 2", "emoji + finding 3"]}`)
	return sb.String()
}

func parseSummary(content string) (domain.Summary, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload struct {
		Conclusion string   `json:"conclusion"`
		Findings   []string `json:"findings"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.Summary{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if payload.Conclusion == "" {
		return domain.Summary{}, fmt.Errorf("%w: empty conclusion", ErrBadResponse)
	}

	return domain.Summary{
		Conclusion: payload.Conclusion,
		Findings:   payload.Findings,
	}, nil
}
