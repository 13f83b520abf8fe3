// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Enricher implements ai.Enricher using OpenAI-compatible chat APIs.
type Enricher struct {
	client          llms.Model
	maxInputChars   int
	maxOutputTokens int
	temperature     float64
	logger          *slog.Logger
}

var _ ai.Enricher = (*Enricher)(nil)

// enrichment is the structure the model is asked to reply with.
type enrichment struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// newEnricher is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEnricher(config *ai.Config) (*Enricher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return newEnricherWithClient(client, config), nil
}

// newEnricherWithClient wires an Enricher around an existing model client.
func newEnricherWithClient(client llms.Model, config *ai.Config) *Enricher {
	return &Enricher{
		client:          client,
		maxInputChars:   config.MaxInputChars,
		maxOutputTokens: config.MaxOutputTokens,
		temperature:     config.Temperature,
		logger:          slog.Default().With("component", "openai-enricher"),
	}
}

// NewEnricher creates a new enricher using the provided configuration.
//
// Returns ai.Enricher interface to enforce abstraction.
func NewEnricher(config *ai.Config) (ai.Enricher, error) {
	return newEnricher(config)
}

// Enrich asks the model for a summary and tags describing text.
func (e *Enricher) Enrich(ctx context.Context, text string) (*ai.Enrichment, error) {
	text = truncateRunes(strings.TrimSpace(text), e.maxInputChars)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(e.temperature),
		llms.WithMaxTokens(e.maxOutputTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return &ai.Enrichment{}, nil
	}

	return parseEnrichment(response.Choices[0].Content, e.logger), nil
}

// parseEnrichment decodes a model reply. A reply that does not decode into
// the expected structure is used verbatim as the summary.
func parseEnrichment(reply string, logger *slog.Logger) *ai.Enrichment {
	raw := strings.TrimSpace(reply)
	responseText := repairJSON(stripCodeFences(raw))

	var result enrichment
	if err := json.Unmarshal([]byte(responseText), &result); err != nil || strings.TrimSpace(result.Summary) == "" {
		logger.Warn("enrichment reply is not structured; using raw text", "err", err)
		return &ai.Enrichment{
			Summary:     raw,
			FromRawText: true,
		}
	}

	return &ai.Enrichment{
		Summary: strings.TrimSpace(result.Summary),
		Tags:    normalizeTags(result.Tags),
	}
}
