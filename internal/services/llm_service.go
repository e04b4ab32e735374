package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const maxPostingChars = 20000

// Completer answers a single prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type modelCompleter struct {
	model llms.Model
}

func (m modelCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m.model, prompt)
}

type LLMService struct {
	Client Completer
}

// NewGeminiService builds the extractor on a Gemini model.
func NewGeminiService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewLLMService(modelCompleter{model: llm}), nil
}

func NewLLMService(c Completer) *LLMService {
	return &LLMService{Client: c}
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the company (e.g., Google, StartupInc)",
    "title": "Job title (e.g., Senior Backend Engineer)",
    "description": "A clean summary of the job. Focus on Responsibilities. Remove HTML tags.",
    "requirements": ["Array", "of", "skills", "and", "technologies", "e.g., Go, React, AWS"],
    "salary": "The salary string if explicitly mentioned (e.g., '$100k - $150k'), otherwise null",
    "location": "Job location or 'Remote'",
    "jobType": "Full-time, Part-time, Internship or Contract",
    "experienceLevel": "Minimum years of experience as an integer, otherwise null",
    "position": "Number of openings as an integer, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ExtractJobDetails takes raw HTML and returns a structured job draft.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (*dtos.ExtractedJob, error) {
	if len(rawHTML) > maxPostingChars {
		rawHTML = rawHTML[:maxPostingChars]
	}
	resp, err := s.Client.Complete(ctx, fmt.Sprintf(jobExtractionPrompt, rawHTML))
	if err != nil {
		return nil, err
	}

	var draft dtos.ExtractedJob
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if draft.Requirements == nil {
		draft.Requirements = []string{}
	}
	return &draft, nil
}

// stripCodeFence removes a ```json ... ``` wrapper models add despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
