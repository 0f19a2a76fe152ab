package generate

// #region imports
import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/proofloop/proofloop/internal/proof"
)

// #endregion imports

// #region config

// Config holds OpenAI-compatible proposer settings. BaseURL permits
// any compatible endpoint (Ollama, vLLM, proxies).
type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	MaxTokens         int
	Temperature       float32
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible proposer defaults.
func DefaultConfig() Config {
	return Config{
		Model:             openai.GPT4oMini,
		MaxTokens:         800,
		Temperature:       0.2,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// #endregion config

// #region proposer

// OpenAIProposer asks an OpenAI-compatible chat model for one
// structured reasoning step per call. All output passes through
// ParseCandidate; malformed responses surface as errors, never as
// coerced candidates.
type OpenAIProposer struct {
	client  *openai.Client
	config  Config
	limiter *rate.Limiter
}

// NewOpenAIProposer creates a rate-limited proposer.
func NewOpenAIProposer(config Config) (*OpenAIProposer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultConfig().MaxTokens
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = DefaultConfig().Burst
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProposer{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}, nil
}

// Propose requests one candidate step. Retryable: each call is an
// independent generation.
func (p *OpenAIProposer) Propose(ctx context.Context, req Request) (Candidate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Candidate{}, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
	})
	if err != nil {
		return Candidate{}, fmt.Errorf("propose rpc: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Candidate{}, fmt.Errorf("propose rpc: empty response")
	}

	raw := resp.Choices[0].Message.Content
	candidate, err := ParseCandidate([]byte(raw))
	if err != nil {
		log.Printf("[GEN] rejected malformed candidate: %v", err)
		return Candidate{}, err
	}
	return candidate, nil
}

// #endregion proposer

// #region prompt

const systemPrompt = `You are the step generator inside a formal reasoning controller.
Emit exactly one JSON object describing a single inference step; the controller validates it symbolically.
Schema:
{"kind":"deductive","summary":"...","argument":{"major":{"quantifier":"All|No|Some|SomeNot","subject":"...","predicate":"..."},"minor":{...},"conclusion":{...}}}
or
{"kind":"inductive","summary":"...","step":{"schema":"enumerative|analogical|abductive","observations":[{...}],"conclusion":{...},"confidence":0.0,"similarity_dims":["..."],"alternatives":["..."]}}
Premises must be axioms or already-proven conclusions, verbatim. No prose outside the JSON object.`

// BuildPrompt renders the session context for one propose call.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Target conclusion: %s\n\n", req.Target)

	b.WriteString("Given axioms:\n")
	for _, a := range req.Axioms {
		fmt.Fprintf(&b, "- %s\n", a)
	}

	proven := provenLines(req.Snapshot)
	if len(proven) > 0 {
		b.WriteString("\nProven so far:\n")
		for _, line := range proven {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	if req.Feedback != "" {
		fmt.Fprintf(&b, "\nYour previous step was rejected: %s\nPropose a different step.\n", req.Feedback)
	}

	b.WriteString("\nPropose the next single step toward the target.")
	return b.String()
}

func provenLines(snap proof.Snapshot) []string {
	var lines []string
	for _, n := range snap.Nodes {
		if n.Verdict != proof.VerdictValid || n.Kind == proof.KindAxiom {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", n.Statement, n.Rule))
	}
	return lines
}

// #endregion prompt
