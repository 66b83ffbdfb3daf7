// Package agent generates the human-style replies that keep a scammer
// engaged. Reply generation is an opaque collaborator from the pipeline's
// point of view: it never returns an error and always returns non-empty text,
// degrading to a canned line when the LLM is unavailable or misbehaves.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/httputil"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
)

// FallbackReplyScam is the canned reply used when the LLM is not configured
// or fails mid-conversation.
const FallbackReplyScam = "Why is my account being blocked? How do I verify?"

// FallbackReplyError answers blank input.
const FallbackReplyError = "I'm not sure, could you please explain?"

// Metadata carries optional channel hints from the inbound request.
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// ReplyGenerator produces the next reply in a scam conversation.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, messageText string, history []intel.Message, md *Metadata) string
}

// StaticReplier always answers with the canned scam reply. It is the
// generator of last resort and the default when no API key is configured.
type StaticReplier struct{}

func (StaticReplier) GenerateReply(_ context.Context, messageText string, _ []intel.Message, _ *Metadata) string {
	if strings.TrimSpace(messageText) == "" {
		return FallbackReplyError
	}
	return FallbackReplyScam
}

const systemPrompt = `You are a worried bank customer. Someone is messaging you about account issues (blocked, verification, UPI, etc.).

Your role:
- Respond naturally as a concerned but cautious person
- Ask clarifying questions
- Show gradual trust, do not immediately comply
- If they share bank details, UPI ID, links, or phone numbers, acknowledge naturally
- Keep replies short (1-2 sentences)
- Match the tone of their message (formal/informal)

CRITICAL: NEVER use these words: scam, honeypot, bot, detection, fraud, suspicious.
Behave like a real human. Reply with ONLY your response text, no quotes or labels.`

// LLMReplier generates replies through an OpenAI-compatible chat-completions
// endpoint.
type LLMReplier struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// ReplierConfig configures an LLMReplier.
type ReplierConfig struct {
	APIKey  string
	Model   string
	BaseURL string       // Optional override; default is the OpenAI API
	Client  *http.Client // Optional override for tests
}

// NewLLMReplier creates a replier. Returns nil when no API key is set;
// callers should fall back to StaticReplier.
func NewLLMReplier(cfg ReplierConfig) *LLMReplier {
	if cfg.APIKey == "" {
		return nil
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	c := cfg.Client
	if c == nil {
		c = httputil.Client(httputil.TierLLM)
	}
	return &LLMReplier{client: c, baseURL: baseURL, apiKey: cfg.APIKey, model: model}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateReply asks the LLM for the next in-character response. Any failure
// degrades to the canned scam reply so the conversation never stalls.
func (r *LLMReplier) GenerateReply(ctx context.Context, messageText string, history []intel.Message, md *Metadata) string {
	if strings.TrimSpace(messageText) == "" {
		return FallbackReplyError
	}

	reply, err := r.complete(ctx, adjustPromptForMetadata(systemPrompt, md), buildUserMessage(messageText, history))
	if err != nil {
		log.Printf("[AGENT] completion failed, using fallback: %v", err)
		return FallbackReplyScam
	}

	reply = strings.Trim(strings.TrimSpace(reply), `"'`)
	if reply == "" {
		return FallbackReplyScam
	}
	return reply
}

// buildUserMessage formats the running conversation for the LLM.
func buildUserMessage(messageText string, history []intel.Message) string {
	var b strings.Builder
	for _, m := range history {
		role := "User"
		if m.Sender == intel.SenderScammer {
			role = "Scammer"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Text)
	}
	fmt.Fprintf(&b, "Scammer: %s\n", messageText)
	b.WriteString("\nHow should the User respond? Reply with ONLY the response text, no quotes.")
	return b.String()
}

// adjustPromptForMetadata appends channel-specific guidance.
func adjustPromptForMetadata(prompt string, md *Metadata) string {
	if md == nil {
		return prompt
	}
	var additions []string
	if strings.EqualFold(md.Channel, "SMS") {
		additions = append(additions, "Keep replies very short (SMS style).")
	}
	if strings.EqualFold(md.Locale, "IN") {
		additions = append(additions, "Context: India - UPI, Indian banks, INR.")
	}
	if md.Language != "" && !strings.EqualFold(md.Language, "english") {
		additions = append(additions, fmt.Sprintf("Respond in %s if the scammer uses it.", md.Language))
	}
	if len(additions) == 0 {
		return prompt
	}
	return prompt + "\n\n" + strings.Join(additions, "\n")
}

func (r *LLMReplier) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: 150,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(r.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer httputil.DrainAndClose(resp.Body)

	body, err := httputil.ReadBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal error: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}
