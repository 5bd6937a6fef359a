package gemini

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
)

//go:embed prompts/*.tmpl
var defaultPrompts embed.FS

// Template file names. A PromptTemplateDir override may supply any subset of
// these; missing files fall back to the embedded defaults.
const (
	quizTemplate         = "quiz.tmpl"
	flashcardTemplate    = "flashcards.tmpl"
	systemTemplate       = "system.tmpl"
	greetingTemplate     = "greeting.tmpl"
	fileAnalysisTemplate = "file_analysis.tmpl"
)

var templateNames = []string{
	quizTemplate,
	flashcardTemplate,
	systemTemplate,
	greetingTemplate,
	fileAnalysisTemplate,
}

// quizPromptData is passed to the quiz template
type quizPromptData struct {
	Topic      string
	Difficulty domain.Difficulty
	Count      int
}

// flashcardPromptData is passed to the flashcard template
type flashcardPromptData struct {
	SourceText string
}

// tutorPromptData is passed to the system, greeting and file analysis templates
type tutorPromptData struct {
	Persona         string
	FirstName       string
	InstitutionName string
	Department      string
	Year            string
	FileName        string
	Content         string
}

// Prompts holds the parsed prompt templates.
type Prompts struct {
	templates map[string]*template.Template
}

// LoadPrompts parses the embedded templates, overriding each with a file of
// the same name from dir when dir is non-empty and the file exists.
func LoadPrompts(dir string) (*Prompts, error) {
	p := &Prompts{templates: make(map[string]*template.Template, len(templateNames))}

	for _, name := range templateNames {
		content, err := readTemplate(dir, name)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template %s: %v",
				generation.ErrInvalidConfig, name, err)
		}

		tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse prompt template %s: %v",
				generation.ErrInvalidConfig, name, err)
		}
		p.templates[name] = tmpl
	}

	return p, nil
}

func readTemplate(dir, name string) (string, error) {
	if dir != "" {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(content), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	content, err := defaultPrompts.ReadFile("prompts/" + name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (p *Prompts) render(name string, data any) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt template %s not loaded", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Quiz renders the instruction for a quiz request.
func (p *Prompts) Quiz(topic string, difficulty domain.Difficulty, count int) (string, error) {
	return p.render(quizTemplate, quizPromptData{Topic: topic, Difficulty: difficulty, Count: count})
}

// Flashcards renders the instruction for a flashcard request.
func (p *Prompts) Flashcards(sourceText string) (string, error) {
	return p.render(flashcardTemplate, flashcardPromptData{SourceText: sourceText})
}

// System renders the fixed tutor system instruction.
func (p *Prompts) System(persona string) (string, error) {
	return p.render(systemTemplate, tutorPromptData{Persona: persona})
}

// Greeting renders the welcome turn for a learner.
func (p *Prompts) Greeting(persona string, profile domain.UserProfile) (string, error) {
	return p.render(greetingTemplate, tutorData(persona, profile))
}

// FileAnalysis renders the prompt sent when a learner attaches a document.
func (p *Prompts) FileAnalysis(
	persona string,
	profile domain.UserProfile,
	fileName, content string,
) (string, error) {
	data := tutorData(persona, profile)
	data.FileName = fileName
	data.Content = content
	return p.render(fileAnalysisTemplate, data)
}

func tutorData(persona string, profile domain.UserProfile) tutorPromptData {
	return tutorPromptData{
		Persona:         persona,
		FirstName:       profile.FirstName(),
		InstitutionName: profile.InstitutionName,
		Department:      profile.Department,
		Year:            profile.Year,
	}
}
