package gemini

import "google.golang.org/genai"

// quizSchema declares an array of quiz question objects.
func quizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":       {Type: genai.TypeString},
				"question": {Type: genai.TypeString},
				"options": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"correctAnswer": {Type: genai.TypeInteger},
				"explanation":   {Type: genai.TypeString},
			},
			Required: []string{"id", "question", "options", "correctAnswer", "explanation"},
		},
	}
}

// flashcardSchema declares an array of front/back card objects. Mastery is
// not part of the schema; it is never model-generated.
func flashcardSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":    {Type: genai.TypeString},
				"front": {Type: genai.TypeString},
				"back":  {Type: genai.TypeString},
			},
			Required: []string{"id", "front", "back"},
		},
	}
}
