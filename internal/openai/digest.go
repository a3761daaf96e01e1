// Package openai turns a dashboard report into a short written market digest.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const (
	DefaultModel = "gpt-4"
	// maxChunk caps the report text sent in one request.
	maxChunk = 6000
)

var errNoChoices = errors.New("no response from OpenAI")

type Digester struct {
	cli   oa.Client
	model string
}

func NewDigester(apiKey string, opts ...option.RequestOption) *Digester {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Digester{cli: oa.NewClient(opts...), model: DefaultModel}
}

// Digest summarizes a markdown dashboard report. Large reports are
// summarized per chunk of sections and the partial notes merged.
func (d *Digester) Digest(ctx context.Context, report string) (string, error) {
	chunks := chunkSections(report, maxChunk)
	if len(chunks) == 0 {
		return "No market data to summarize.", nil
	}
	if len(chunks) == 1 {
		return d.complete(ctx, digestPrompt, "Write the market digest for this dashboard:\n"+chunks[0])
	}

	partials := make([]string, 0, len(chunks))
	for i, c := range chunks {
		out, err := d.complete(ctx, notesPrompt, "Dashboard excerpt:\n"+c)
		if err != nil {
			return "", fmt.Errorf("digest chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, out)
	}
	log.Debug().Int("chunks", len(chunks)).Msg("openai: merging partial notes")
	return d.complete(ctx, digestPrompt, "Write the market digest from these notes:\n"+strings.Join(partials, "\n\n"))
}

const (
	digestPrompt = "You are a concise equity market analyst. Using only the numbers provided, write a text-only digest with sections: Market Breadth, Leaders and Laggards, Risk (volatility and correlation), Sectors, This Month. Use bullets. Do not invent tickers or figures and do not give trading advice."
	notesPrompt  = "Extract the key facts from this stock dashboard excerpt as short bullets. Keep tickers and figures exact."
)

func (d *Digester) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := d.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(d.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(system),
			oa.UserMessage(user),
		},
		MaxTokens: oa.Int(1500),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// chunkSections splits markdown at level-two headings and packs whole
// sections into chunks of at most max bytes. A single oversized section is
// truncated.
func chunkSections(md string, max int) []string {
	md = strings.TrimSpace(md)
	if md == "" {
		return nil
	}
	var sections []string
	for i, part := range strings.Split(md, "\n## ") {
		if i > 0 {
			part = "## " + part
		}
		if len(part) > max {
			part = part[:max]
		}
		sections = append(sections, part)
	}

	var chunks []string
	var cur strings.Builder
	for _, s := range sections {
		if cur.Len() > 0 && cur.Len()+1+len(s) > max {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(s)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
