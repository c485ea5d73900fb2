package summarizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// chunkSizeWords is the largest input the model accepts in one call.
	chunkSizeWords = 1024

	// Generation bounds for single-chunk and per-chunk calls.
	chunkMinWords = 50
	chunkMaxWords = 150

	// Wider bounds for the combine pass, keeping the final summary length
	// roughly independent of how many chunks the document produced.
	combineMinWords = 100
	combineMaxWords = 200
)

// Model abstracts the summarization model. Implementations summarize a
// bounded piece of text into between minWords and maxWords words.
type Model interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// Result describes one completed summarization.
type Result struct {
	Summary string
	// Chunks is how many input chunks were summarized (1 for short input).
	Chunks int
}

// Chunked summarizes documents of arbitrary length with a two-level
// map/reduce scheme: the input is split into word-bounded chunks, each chunk
// is summarized independently, and when more than one chunk exists the
// per-chunk summaries are summarized once more into the final result.
// Exactly two levels; the combine pass is never itself chunked.
type Chunked struct {
	model  Model
	logger *zap.Logger
}

// NewChunked creates a chunked summarizer on top of the given model.
func NewChunked(model Model, logger *zap.Logger) *Chunked {
	return &Chunked{
		model:  model,
		logger: logger,
	}
}

// Summarize produces a summary of text. Any model failure aborts the whole
// run; no partial per-chunk output is returned.
func (s *Chunked) Summarize(ctx context.Context, text string) (*Result, error) {
	words := strings.Fields(text)

	if len(words) <= chunkSizeWords {
		summary, err := s.model.Summarize(ctx, text, chunkMinWords, chunkMaxWords)
		if err != nil {
			return nil, fmt.Errorf("summarize: %w", err)
		}
		return &Result{Summary: summary, Chunks: 1}, nil
	}

	var chunks []string
	for i := 0; i < len(words); i += chunkSizeWords {
		end := i + chunkSizeWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	s.logger.Debug("Summarizing in chunks",
		zap.Int("words", len(words)),
		zap.Int("chunks", len(chunks)),
	)

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := s.model.Summarize(ctx, chunk, chunkMinWords, chunkMaxWords)
		if err != nil {
			return nil, fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)
	}

	if len(summaries) == 1 {
		return &Result{Summary: summaries[0], Chunks: 1}, nil
	}

	combined := strings.Join(summaries, " ")
	final, err := s.model.Summarize(ctx, combined, combineMinWords, combineMaxWords)
	if err != nil {
		return nil, fmt.Errorf("summarize combined chunks: %w", err)
	}
	return &Result{Summary: final, Chunks: len(chunks)}, nil
}
