package gemini

import (
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
)

// Persona returns the tutor persona name.
func (c *Client) Persona() string {
	return c.persona
}

// SystemInstruction returns the fixed instruction attached to every turn.
func (c *Client) SystemInstruction() string {
	return c.systemInstruction
}

// Greeting renders the welcome turn for profile.
func (c *Client) Greeting(profile domain.UserProfile) (string, error) {
	text, err := c.prompts.Greeting(c.persona, profile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	return text, nil
}

// FileAnalysisPrompt renders the prompt sent for an attached document.
func (c *Client) FileAnalysisPrompt(profile domain.UserProfile, fileName, content string) (string, error) {
	text, err := c.prompts.FileAnalysis(c.persona, profile, fileName, content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	return text, nil
}
