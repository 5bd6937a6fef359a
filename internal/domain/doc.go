// Package domain contains the study entities the tutor works with: quiz
// questions, flashcards, chat turns, the learner's academic profile, and the
// generation requests issued to the language model. Types here are plain
// values; generated records are treated as best-effort and are checked with
// the Validate helpers at the point of use rather than trusted on arrival.
package domain
