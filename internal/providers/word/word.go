// Package word supplies the words players are asked to spell.
package word

import (
	"context"
	"errors"

	"github.com/mcoot/spellgame/internal/model"
)

var (
	// ErrFlagged marks a candidate rejected by content policy. It is always
	// wrapped with model.ErrTransientProvider so callers retry.
	ErrFlagged = errors.New("word flagged by content policy")

	// ErrNoCandidates means no word matches the requested difficulty
	ErrNoCandidates = errors.New("no candidate words for difficulty")
)

// Metadata is descriptive information shown alongside a word
type Metadata struct {
	PartOfSpeech string   `yaml:"part_of_speech"`
	Definition   string   `yaml:"definition"`
	Stems        []string `yaml:"stems"`
	Synonyms     []string `yaml:"synonyms"`
	Antonyms     []string `yaml:"antonyms"`
	Offensive    bool     `yaml:"offensive"`
}

// Word is a single round's answer key with its metadata
type Word struct {
	Text     string
	Metadata Metadata
}

// Provider returns a word suitable for the given difficulty
type Provider interface {
	GetWord(ctx context.Context, difficulty model.Difficulty) (Word, error)
}
