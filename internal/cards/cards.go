package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Flashcard is one generated study card. All three fields are required;
// cards have no identity beyond their position in the deck.
type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Mnemonic   string `json:"mnemonic"`
}

var (
	// ErrMalformedResponse means the model output is not parseable JSON.
	ErrMalformedResponse = errors.New("response is not valid JSON")
	// ErrResponseShape means the output parsed but is not an array of
	// three-field card objects.
	ErrResponseShape = errors.New("response has unexpected shape")
)

// Decode validates raw model output and turns it into a deck. An empty
// array decodes to an empty deck with no error; the caller decides how
// to report "no flashcards generated".
func Decode(raw string) ([]Flashcard, error) {
	raw = stripCodeFences(raw)

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Models sometimes wrap the array in prose; salvage the first
		// bracketed block before giving up.
		if s := findFirstArray(raw); s != "" {
			if err2 := json.Unmarshal([]byte(s), &v); err2 != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
		} else {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %T", ErrResponseShape, v)
	}

	deck := make([]Flashcard, 0, len(arr))
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrResponseShape, i)
		}
		card, err := cardFromObject(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrResponseShape, i, err)
		}
		deck = append(deck, card)
	}
	return deck, nil
}

func cardFromObject(obj map[string]any) (Flashcard, error) {
	var card Flashcard
	fields := []struct {
		name string
		dst  *string
	}{
		{"term", &card.Term},
		{"definition", &card.Definition},
		{"mnemonic", &card.Mnemonic},
	}
	for _, f := range fields {
		v, ok := obj[f.name]
		if !ok {
			return card, fmt.Errorf("missing field %q", f.name)
		}
		s, ok := v.(string)
		if !ok {
			return card, fmt.Errorf("field %q is not a string", f.name)
		}
		*f.dst = s
	}
	return card, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func findFirstArray(s string) string {
	start := -1
	depth := 0
	for i, r := range s {
		switch r {
		case '[':
			if start == -1 {
				start = i
			}
			depth++
		case ']':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
