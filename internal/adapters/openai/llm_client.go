package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
type OpenAIClient struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	maxBodySize  int
	logger       *zap.Logger
	promptFormat string
}

// JobExtractionResponse represents the structured response from the LLM
type JobExtractionResponse struct {
	IsJobEmail bool   `json:"isJobEmail"`
	Company    string `json:"company"`
	JobTitle   string `json:"jobTitle"`
	Status     string `json:"status"`
	Location   string `json:"location"`
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:       client,
		modelName:    modelName,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		maxBodySize:  maxBodySize,
		logger:       logger,
		promptFormat: extractionPromptFormat,
	}
}

const extractionPromptFormat = `You are a job application tracking assistant. Analyze the following email and determine whether it concerns a job application of the recipient.
Respond with a JSON object containing exactly these keys and nothing else:
- isJobEmail: boolean (true if the email is about a job application)
- company: string (the hiring company)
- jobTitle: string (the position applied for)
- status: one of "Applied", "Interview", "Offer", "Rejected"
- location: string (the job location; include the word Remote if the role is remote)

Email:
From: %s
Subject: %s
Body:
%s

Respond only with the JSON object. No markdown, no commentary.`

// truncateBody truncates the email body if it exceeds the prompt budget
func (c *OpenAIClient) truncateBody(body string) string {
	if c.maxBodySize <= 0 || len(body) <= c.maxBodySize {
		return body
	}

	truncated := body[:c.maxBodySize]
	c.logger.Debug("Email body truncated",
		zap.Int("original_size", len(body)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", c.maxBodySize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// ExtractJobDetails classifies a message and extracts application fields
func (c *OpenAIClient) ExtractJobDetails(ctx context.Context, msg *core.EmailMessage) (*core.ExtractionResult, error) {
	truncatedBody := c.truncateBody(msg.Body)

	prompt := fmt.Sprintf(c.promptFormat, msg.From, msg.Subject, truncatedBody)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a job application tracking assistant. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json_object",
	}
	req.ResponseFormat = &responseFormat

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := resp.Choices[0].Message.Content

	extraction, err := ParseExtractionResponse(responseText)
	if err != nil {
		return nil, err
	}

	return &core.ExtractionResult{
		IsJobEmail: extraction.IsJobEmail,
		Company:    extraction.Company,
		JobTitle:   extraction.JobTitle,
		Status:     core.Status(extraction.Status),
		Location:   extraction.Location,
	}, nil
}

// ParseExtractionResponse parses the model's reply as JSON, recovering
// from markdown fences or surrounding commentary by scanning for the
// outermost object braces
func ParseExtractionResponse(responseText string) (*JobExtractionResponse, error) {
	var extraction JobExtractionResponse
	if err := json.Unmarshal([]byte(responseText), &extraction); err == nil {
		return &extraction, nil
	}

	jsonStart := -1
	jsonEnd := -1

	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}

	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("failed to extract JSON from LLM response")
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &extraction); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return &extraction, nil
}
