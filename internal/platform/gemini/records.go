package gemini

import (
	"encoding/json"
	"math"
)

// The record types below decode model output field by field. A field whose
// JSON type does not match is treated as absent instead of failing the whole
// record, so one sloppy value never discards an otherwise usable set.

// missingAnswer marks a correctAnswer that was absent or not an integer.
// It is outside every option range, so QuizQuestion.Validate reports it.
const missingAnswer = -1

// recordID accepts either a JSON string or a JSON number. Models asked for a
// string id sometimes answer with 1, 2, 3.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = recordID(n.String())
	}
	return nil
}

// looseString keeps a JSON string and ignores any other type.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err == nil {
		*s = looseString(v)
	}
	return nil
}

// looseStrings keeps a JSON array of strings. Anything else, including an
// array holding a non-string, leaves the field absent.
type looseStrings []string

func (s *looseStrings) UnmarshalJSON(b []byte) error {
	var v []string
	if err := json.Unmarshal(b, &v); err == nil {
		*s = v
	}
	return nil
}

// looseInt keeps a JSON number with an integral value (3 or 3.0). Strings,
// fractions and other types leave it unset.
type looseInt struct {
	value int
	set   bool
}

func (n *looseInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	n.value, n.set = int(f), true
	return nil
}

// orMissing returns the decoded value, or missingAnswer when unset.
func (n looseInt) orMissing() int {
	if !n.set {
		return missingAnswer
	}
	return n.value
}

type quizRecord struct {
	ID            recordID     `json:"id"`
	Question      looseString  `json:"question"`
	Options       looseStrings `json:"options"`
	CorrectAnswer looseInt     `json:"correctAnswer"`
	Explanation   looseString  `json:"explanation"`
}

type flashcardRecord struct {
	ID    recordID    `json:"id"`
	Front looseString `json:"front"`
	Back  looseString `json:"back"`
}
