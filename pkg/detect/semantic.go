package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/httputil"
)

// ScamScript is one known scam opener or escalation line used as a semantic
// seed. Similarity to a seed is an advisory signal only; the heuristic
// verdict in Detect never consults it.
type ScamScript struct {
	Text     string
	Category string // impersonation, phishing, lottery, kyc
}

// scamScripts are seed phrases drawn from common Indian financial scam
// playbooks. Advisory matching is approximate by design.
var scamScripts = []ScamScript{
	{"Your bank account has been blocked due to incomplete KYC verification", "kyc"},
	{"Dear customer your account will be suspended today, verify immediately", "impersonation"},
	{"You have won a lottery prize, pay the processing fee to claim", "lottery"},
	{"Share your OTP to complete the refund transaction", "phishing"},
	{"Click this link to update your PAN card or your account gets frozen", "phishing"},
	{"This is the bank verification department, confirm your UPI pin", "impersonation"},
	{"Your electricity connection will be disconnected tonight, call this number", "impersonation"},
	{"Complete the payment to this UPI ID to release your parcel", "phishing"},
}

// SemanticAdvisor scores inbound text against known scam scripts with
// embedding similarity. It is optional: construction fails cleanly when the
// embedding endpoint is unreachable, and the caller runs without it.
type SemanticAdvisor struct {
	db         *chromem.DB
	collection *chromem.Collection
	threshold  float32
	mu         sync.RWMutex
	ready      bool
}

// AdvisoryResult is the outcome of a semantic similarity check.
type AdvisoryResult struct {
	Score    float32 `json:"score"`
	Category string  `json:"category,omitempty"`
	Matched  string  `json:"matched,omitempty"`
	Similar  bool    `json:"similar"`
}

// NewSemanticAdvisor builds an advisor backed by an Ollama embedding model.
func NewSemanticAdvisor(baseURL, model string) (*SemanticAdvisor, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection("scam_scripts", nil, newOllamaEmbeddingFunc(model, baseURL))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &SemanticAdvisor{
		db:         db,
		collection: collection,
		threshold:  0.65,
	}, nil
}

// LoadScripts embeds the seed phrases. Requires the embedding endpoint to be
// reachable; call once at startup and drop the advisor on error.
func (s *SemanticAdvisor) LoadScripts(ctx context.Context) error {
	docs := make([]chromem.Document, 0, len(scamScripts))
	for i, script := range scamScripts {
		docs = append(docs, chromem.Document{
			ID:       fmt.Sprintf("script-%d", i),
			Content:  script.Text,
			Metadata: map[string]string{"category": script.Category},
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, 2); err != nil {
		return fmt.Errorf("embed scam scripts: %w", err)
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return nil
}

// Ready reports whether the seed scripts are embedded and queryable.
func (s *SemanticAdvisor) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Check returns the closest scam-script match for the text.
func (s *SemanticAdvisor) Check(ctx context.Context, text string) (*AdvisoryResult, error) {
	if !s.Ready() {
		return nil, fmt.Errorf("advisor not ready")
	}
	if text == "" {
		return &AdvisoryResult{}, nil
	}

	results, err := s.collection.Query(ctx, text, 1, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query scam scripts: %w", err)
	}
	if len(results) == 0 {
		return &AdvisoryResult{}, nil
	}

	top := results[0]
	return &AdvisoryResult{
		Score:    top.Similarity,
		Category: top.Metadata["category"],
		Matched:  top.Content,
		Similar:  top.Similarity >= s.threshold,
	}, nil
}

// newOllamaEmbeddingFunc targets Ollama's native /api/embeddings endpoint.
func newOllamaEmbeddingFunc(model, baseURL string) chromem.EmbeddingFunc {
	client := httputil.Client(httputil.TierLLM)

	return func(ctx context.Context, text string) ([]float32, error) {
		reqBody := map[string]string{"model": model, "prompt": text}
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal embedding request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/embeddings", bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		defer httputil.DrainAndClose(resp.Body)

		if resp.StatusCode != http.StatusOK {
			body, _ := httputil.ReadBody(resp.Body, 4096)
			return nil, fmt.Errorf("embedding service status %d: %s", resp.StatusCode, string(body))
		}

		var result struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode embedding response: %w", err)
		}
		return result.Embedding, nil
	}
}
