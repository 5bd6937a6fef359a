package domain

import (
	"fmt"
	"strings"
)

// UserProfile is the learner context supplied by the host. It only
// parameterizes prompt text and is never validated or transformed.
type UserProfile struct {
	Name            string `json:"name"`
	InstitutionType string `json:"institution_type"`
	InstitutionName string `json:"institution_name"`
	Department      string `json:"department"`
	Year            string `json:"year"`
}

// IsZero reports whether no profile fields are set.
func (p UserProfile) IsZero() bool {
	return p == UserProfile{}
}

// FirstName returns the first whitespace-separated word of Name.
func (p UserProfile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// AcademicContext decorates a quiz topic with the learner's level so the
// model can pitch questions appropriately.
func (p UserProfile) AcademicContext(topic string) string {
	if p.IsZero() {
		return topic
	}
	return fmt.Sprintf("%s (%s Level: %s in %s)", topic, p.InstitutionType, p.Year, p.Department)
}
