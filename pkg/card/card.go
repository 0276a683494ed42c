// Package card holds the card records exchanged with the similarity backend.
package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Card is a card as returned by /find_similar and /find_similar_batch.
// Similarity fields are only populated for similar cards, never for the target.
type Card struct {
	SimpleName        string             `json:"simpleName"`
	ImageURL          string             `json:"image_url"`
	CardTraderURL     string             `json:"cardTraderUrl,omitempty"`
	OverallSimilarity float64            `json:"overall_similarity,omitempty"`
	Similarities      map[Factor]float64 `json:"similarities,omitempty"`
	Details           Details            `json:"details"`
}

// Name returns the display name, falling back to the simple name.
func (c Card) Name() string {
	if c.Details.FullName != "" {
		return c.Details.FullName
	}
	return c.SimpleName
}

// Score returns the similarity score for factor, or 0 when absent.
func (c Card) Score(f Factor) float64 {
	return c.Similarities[f]
}

// Details are the printed attributes of a card.
type Details struct {
	FullName   string   `json:"fullName"`
	SimpleName string   `json:"simpleName,omitempty"`
	Color      string   `json:"color"`
	Cost       Stat     `json:"cost"`
	Strength   Stat     `json:"strength"`
	Willpower  Stat     `json:"willpower"`
	Lore       Stat     `json:"lore"`
	Rarity     string   `json:"rarity,omitempty"`
	Set        string   `json:"set,omitempty"`
	FullText   string   `json:"fullText"`
	Type       string   `json:"type,omitempty"`
	Inkwell    bool     `json:"inkwell"`
	Mechanics  []string `json:"mechanics"`
}

// Colors splits a dual color such as "Amber-Amethyst" into its parts.
func (d Details) Colors() []string {
	if d.Color == "" {
		return nil
	}
	parts := strings.Split(d.Color, "-")
	colors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			colors = append(colors, p)
		}
	}
	return colors
}

// Stat is an optional numeric attribute. The backend sends an empty string
// or null for attributes a card does not have (actions have no strength).
type Stat struct {
	Value int
	Valid bool
}

// NewStat returns a defined Stat.
func NewStat(v int) Stat {
	return Stat{Value: v, Valid: true}
}

// String returns the decimal value, or "" when undefined.
func (s Stat) String() string {
	if !s.Valid {
		return ""
	}
	return strconv.Itoa(s.Value)
}

// MarshalJSON implements json.Marshaler.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Numbers and numeric strings
// are accepted; null, non-finite values and strings that are not numbers
// ("", "X", "-") decode as undefined.
func (s *Stat) UnmarshalJSON(data []byte) error {
	*s = Stat{}

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	quoted := len(data) > 0 && data[0] == '"'
	if quoted {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decoding stat: %w", err)
		}
		raw = strings.TrimSpace(raw)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if quoted {
			return nil
		}
		return fmt.Errorf("decoding stat %s: %w", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	*s = NewStat(int(math.Round(f)))
	return nil
}

// Delta returns other minus s. ok is false when either side is undefined.
func (s Stat) Delta(other Stat) (int, bool) {
	if !s.Valid || !other.Valid {
		return 0, false
	}
	return other.Value - s.Value, true
}
