// Package textmatch looks for a person's name in the OCR transcript of a
// roster screenshot.
package textmatch

import (
	"context"
	"strings"

	"github.com/programme-lv/participation/logger"
	"github.com/programme-lv/participation/s3bucket"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type BlockType string

const (
	BlockLine  BlockType = "LINE"
	BlockOther BlockType = "OTHER"
)

// Block is one unit of text found by the extraction service.
type Block struct {
	Type BlockType
	Text string
}

type TextExtractor interface {
	ExtractText(ctx context.Context, image s3bucket.ObjectRef) ([]Block, error)
}

// Transcript holds the normalized roster lines in their original order.
// Failure is set when extraction failed, in which case Lines is empty.
type Transcript struct {
	Lines   []string
	Failure error
}

var stripped = strings.NewReplacer("(", " ", ")", " ", ",", " ")

// Normalize lowercases s, drops parentheses and commas, and collapses runs
// of whitespace into single spaces.
func Normalize(s string) string {
	s = cases.Lower(language.Und).String(s)
	s = stripped.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Contains reports whether the normalized name occurs anywhere inside one of
// the lines. It returns the index of the first such line.
func (t Transcript) Contains(candidateName string) (int, bool) {
	name := Normalize(candidateName)
	if name == "" {
		return -1, false
	}
	for i, line := range t.Lines {
		if strings.Contains(line, name) {
			return i, true
		}
	}
	return -1, false
}

type Matcher struct {
	extractor TextExtractor
}

func NewMatcher(extractor TextExtractor) *Matcher {
	return &Matcher{extractor: extractor}
}

// Transcribe extracts and normalizes the roster's text lines.
func (m *Matcher) Transcribe(ctx context.Context, roster s3bucket.ObjectRef) Transcript {
	blocks, err := m.extractor.ExtractText(ctx, roster)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to extract roster text", "image", roster.String(), "error", err)
		return Transcript{Failure: err}
	}

	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Type != BlockLine {
			continue
		}
		lines = append(lines, Normalize(b.Text))
	}
	return Transcript{Lines: lines}
}

// MatchName never fails: an extraction error means the name was not found.
func (m *Matcher) MatchName(ctx context.Context, roster s3bucket.ObjectRef, candidateName string) (bool, Transcript) {
	transcript := m.Transcribe(ctx, roster)
	idx, found := transcript.Contains(candidateName)
	if found {
		logger.FromContext(ctx).Debug("name found in roster", "line", transcript.Lines[idx])
	}
	return found, transcript
}
