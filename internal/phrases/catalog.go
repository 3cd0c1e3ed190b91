package phrases

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/fortuna/internal/models"
)

// DefaultCategory is used for the built-in phrases
const DefaultCategory = "Przysłowia"

var defaultPhrases = []string{
	"Z małej chmury duży deszcz",
	"Co nagle to po diable",
	"Lepszy wróbel w garści",
	"Kto pyta nie błądzi",
	"Czas leczy rany",
	"Bez pracy nie ma kołaczy",
	"Prawda w oczy kole",
	"Kto pod kim dołki kopie",
}

// Catalog is the ordered, de-duplicated set of phrases a game draws from.
// It is read-only once built and may be shared between sessions.
type Catalog struct {
	phrases []models.Phrase
}

// NewCatalog builds a catalog, dropping blank and repeated phrases
func NewCatalog(phrases []models.Phrase) (*Catalog, error) {
	seen := make(map[string]bool, len(phrases))
	out := make([]models.Phrase, 0, len(phrases))

	for _, p := range phrases {
		p.Text = strings.TrimSpace(p.Text)
		p.Category = strings.TrimSpace(p.Category)
		if p.Text == "" || seen[p.Text] {
			continue
		}
		seen[p.Text] = true
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: catalog has no phrases", ErrPhrasePoolExhausted)
	}

	return &Catalog{phrases: out}, nil
}

// DefaultCatalog returns the built-in proverbs
func DefaultCatalog() *Catalog {
	phrases := make([]models.Phrase, len(defaultPhrases))
	for i, text := range defaultPhrases {
		phrases[i] = models.Phrase{Text: text, Category: DefaultCategory}
	}

	catalog, err := NewCatalog(phrases)
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadCSV reads phrase,category rows. Rows with fewer than two fields are skipped.
func LoadCSV(r io.Reader, logger zerolog.Logger) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var phrases []models.Phrase
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse phrases: %w", err)
		}

		if len(record) < 2 || strings.TrimSpace(record[0]) == "" {
			logger.Warn().Strs("record", record).Msg("skipping invalid phrase record")
			continue
		}

		phrases = append(phrases, models.Phrase{
			Text:     record[0],
			Category: record[1],
		})
	}

	return NewCatalog(phrases)
}

// LoadFile opens path and reads it with LoadCSV
func LoadFile(path string, logger zerolog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read phrases file %s: %w", path, err)
	}
	defer f.Close()

	return LoadCSV(f, logger.With().Str("file", path).Logger())
}

// Len returns the number of phrases
func (c *Catalog) Len() int {
	return len(c.phrases)
}

// At returns the phrase at index i
func (c *Catalog) At(i int) models.Phrase {
	return c.phrases[i]
}

func (c *Catalog) indexOf(text string) int {
	for i, p := range c.phrases {
		if p.Text == text {
			return i
		}
	}
	return -1
}
