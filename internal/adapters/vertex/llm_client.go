package vertex

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/utils"
	"go.uber.org/zap"
)

// VertexClient is an implementation of the LLMClient interface using
// Vertex AI Gemini models, for deployments authenticated through a Google
// Cloud project rather than an API key
type VertexClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	promptFormat  string
	textProcessor *utils.TextProcessor
}

// JobExtractionResponse represents the structured response from the LLM
type JobExtractionResponse struct {
	IsJobEmail bool   `json:"isJobEmail"`
	Company    string `json:"company"`
	JobTitle   string `json:"jobTitle"`
	Status     string `json:"status"`
	Location   string `json:"location"`
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

// NewVertexClient creates a new Vertex AI client
func NewVertexClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *VertexClient {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &VertexClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		promptFormat:  extractionPromptFormat,
		textProcessor: textProcessor,
	}
}

// Close closes the Vertex AI client
func (c *VertexClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ExtractJobDetails classifies a message and extracts application fields
func (c *VertexClient) ExtractJobDetails(ctx context.Context, msg *core.EmailMessage) (*core.ExtractionResult, error) {
	processedBody := c.textProcessor.ProcessText(msg.Body, c.maxBodySize)

	prompt := fmt.Sprintf(c.promptFormat, msg.From, msg.Subject, processedBody)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Vertex AI: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Vertex AI")
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText += string(text)
		}
	}

	extraction, err := parseExtractionResponse(responseText)
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

// parseExtractionResponse parses the model's reply as JSON, scanning for
// the outermost braces when the model wraps the object in fences or prose
func parseExtractionResponse(responseText string) (*JobExtractionResponse, error) {
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
