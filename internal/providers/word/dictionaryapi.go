package word

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcoot/spellgame/internal/model"
)

// DefaultDictionaryAPIURL is the Merriam-Webster API base URL
const DefaultDictionaryAPIURL = "https://www.dictionaryapi.com/api/v3/references"

// DictionaryAPIConfig holds settings for the dictionary API provider
type DictionaryAPIConfig struct {
	BaseURL       string
	DictionaryKey string
	ThesaurusKey  string // optional; synonyms are skipped when empty
	Timeout       time.Duration
}

// DictionaryAPI draws candidates from a Catalog and enriches them with
// definitions from the Merriam-Webster collegiate dictionary. Words the
// dictionary marks offensive are rejected as transient failures.
type DictionaryAPI struct {
	cfg        DictionaryAPIConfig
	candidates *Catalog
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure DictionaryAPI implements Provider
var _ Provider = (*DictionaryAPI)(nil)

// NewDictionaryAPI creates a DictionaryAPI provider
func NewDictionaryAPI(cfg DictionaryAPIConfig, candidates *Catalog, logger *slog.Logger) *DictionaryAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDictionaryAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &DictionaryAPI{
		cfg:        cfg,
		candidates: candidates,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type dictionaryEntry struct {
	Meta struct {
		ID        string     `json:"id"`
		Stems     []string   `json:"stems"`
		Syns      [][]string `json:"syns"`
		Ants      [][]string `json:"ants"`
		Offensive bool       `json:"offensive"`
	} `json:"meta"`
	FL       string   `json:"fl"`
	ShortDef []string `json:"shortdef"`
}

// GetWord picks a candidate and looks it up
func (d *DictionaryAPI) GetWord(ctx context.Context, difficulty model.Difficulty) (Word, error) {
	candidate, err := d.candidates.Pick(difficulty)
	if err != nil {
		return Word{}, err
	}

	entry, err := d.lookup(ctx, "collegiate", candidate.Text, d.cfg.DictionaryKey)
	if err != nil {
		d.logger.Warn("dictionary lookup failed",
			slog.String("word", candidate.Text),
			slog.String("error", err.Error()),
		)
		return Word{}, err
	}
	if entry.Meta.Offensive {
		return Word{}, fmt.Errorf("%w: %w", model.ErrTransientProvider, ErrFlagged)
	}

	w := Word{
		Text: candidate.Text,
		Metadata: Metadata{
			PartOfSpeech: entry.FL,
			Stems:        entry.Meta.Stems,
		},
	}
	if len(entry.ShortDef) > 0 {
		w.Metadata.Definition = entry.ShortDef[0]
	}

	if d.cfg.ThesaurusKey != "" {
		thes, err := d.lookup(ctx, "thesaurus", candidate.Text, d.cfg.ThesaurusKey)
		if err != nil {
			// Synonyms are decoration; a word without them is still playable
			d.logger.Warn("thesaurus lookup failed",
				slog.String("word", candidate.Text),
				slog.String("error", err.Error()),
			)
		} else {
			if len(thes.Meta.Syns) > 0 {
				w.Metadata.Synonyms = thes.Meta.Syns[0]
			}
			if len(thes.Meta.Ants) > 0 {
				w.Metadata.Antonyms = thes.Meta.Ants[0]
			}
		}
	}
	return w, nil
}

// lookup fetches the first entry for a word from one reference
func (d *DictionaryAPI) lookup(ctx context.Context, reference, text, key string) (*dictionaryEntry, error) {
	u := fmt.Sprintf("%s/%s/json/%s?key=%s",
		strings.TrimRight(d.cfg.BaseURL, "/"), reference, url.PathEscape(text), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s lookup: %w", model.ErrTransientProvider, reference, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %w", model.ErrTransientProvider, reference, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s lookup returned status %d", model.ErrTransientProvider, reference, resp.StatusCode)
	}

	// Unknown words come back as a JSON array of suggestion strings
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %w", model.ErrTransientProvider, reference, err)
	}
	if len(raw) == 0 || (len(raw[0]) > 0 && raw[0][0] == '"') {
		return nil, fmt.Errorf("%w: %q not found in %s", model.ErrTransientProvider, text, reference)
	}

	var entry dictionaryEntry
	if err := json.Unmarshal(raw[0], &entry); err != nil {
		return nil, fmt.Errorf("%w: decode %s entry: %w", model.ErrTransientProvider, reference, err)
	}
	return &entry, nil
}
