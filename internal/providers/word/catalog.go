package word

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mcoot/spellgame/internal/dependencies/random"
	"github.com/mcoot/spellgame/internal/model"
	yaml "gopkg.in/yaml.v3"
)

//go:embed words.yaml
var defaultCatalog []byte

// catalogFile is the on-disk YAML layout
type catalogFile struct {
	TargetLengths map[model.Difficulty]int `yaml:"target_lengths"`
	Tolerance     int                      `yaml:"tolerance"`
	Words         []catalogEntry           `yaml:"words"`
}

type catalogEntry struct {
	Text     string `yaml:"text"`
	Metadata `yaml:",inline"`
}

// Catalog is a Provider backed by a fixed word list. Words are chosen by
// length: each difficulty has a target length and any word within the
// tolerance of it is a candidate.
type Catalog struct {
	random random.Random

	mu        sync.RWMutex
	lengths   map[model.Difficulty]int
	tolerance int
	words     []catalogEntry
}

// Ensure Catalog implements Provider
var _ Provider = (*Catalog)(nil)

// NewCatalog creates a Catalog loaded with the embedded default word list
func NewCatalog(rnd random.Random) (*Catalog, error) {
	c := &Catalog{random: rnd}
	if err := c.LoadYAML(defaultCatalog); err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return c, nil
}

// LoadFromFile replaces the catalog with the YAML file at path
func (c *Catalog) LoadFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.LoadYAML(raw)
}

// LoadYAML replaces the catalog with the given YAML document
func (c *Catalog) LoadYAML(raw []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	for d := range file.TargetLengths {
		if !d.Valid() {
			return fmt.Errorf("parse catalog: unknown difficulty %q", d)
		}
	}

	words := make([]catalogEntry, 0, len(file.Words))
	for _, w := range file.Words {
		w.Text = strings.ToLower(strings.TrimSpace(w.Text))
		if w.Text != "" {
			words = append(words, w)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lengths = file.TargetLengths
	c.tolerance = file.Tolerance
	c.words = words
	return nil
}

// LoadWords replaces the word list with plain words, keeping length rules
// (useful for testing)
func (c *Catalog) LoadWords(words []string) {
	entries := make([]catalogEntry, 0, len(words))
	for _, w := range words {
		entries = append(entries, catalogEntry{Text: strings.ToLower(w)})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.words = entries
}

// Candidates returns every word eligible for the difficulty, in catalog order
func (c *Catalog) Candidates(difficulty model.Difficulty) []Word {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target, ok := c.lengths[difficulty]
	if !ok {
		return nil
	}
	var out []Word
	for _, w := range c.words {
		diff := utf8.RuneCountInString(w.Text) - target
		if diff < 0 {
			diff = -diff
		}
		if diff <= c.tolerance {
			out = append(out, Word{Text: w.Text, Metadata: w.Metadata})
		}
	}
	return out
}

// Pick selects a random candidate without applying content policy
func (c *Catalog) Pick(difficulty model.Difficulty) (Word, error) {
	candidates := c.Candidates(difficulty)
	w, ok := random.Pick(c.random, candidates)
	if !ok {
		return Word{}, fmt.Errorf("%w: %w %s", model.ErrWordUnavailable, ErrNoCandidates, difficulty)
	}
	return w, nil
}

// GetWord returns a random candidate. Offensive entries are reported as a
// transient failure so the caller draws again.
func (c *Catalog) GetWord(ctx context.Context, difficulty model.Difficulty) (Word, error) {
	w, err := c.Pick(difficulty)
	if err != nil {
		return Word{}, err
	}
	if w.Metadata.Offensive {
		return Word{}, fmt.Errorf("%w: %w", model.ErrTransientProvider, ErrFlagged)
	}
	return w, nil
}
