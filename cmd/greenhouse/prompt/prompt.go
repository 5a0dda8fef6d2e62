// Package prompt builds the instruction text sent to the oracle. Both
// builders are pure functions of their inputs.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
)

// identifyPrompt pins the exact response shape with a worked example.
// Bullet points and special characters are forbidden in careInstructions
// because the presentation layer splits that field on lines and colons.
const identifyPrompt = `Analyze this plant image and return a JSON object. Format your response EXACTLY like this example, replacing the placeholder text. DO NOT USE BULLET POINTS OR SPECIAL CHARACTERS in the careInstructions field:
{
  "name": "Monstera deliciosa (Swiss Cheese Plant)",
  "summary": "Popular tropical houseplant with unique split leaves",
  "description": "Large climbing plant with distinctive perforated leaves",
  "careInstructions": "Water: Once a week when top soil is dry. Light: Bright indirect light. Soil: Well-draining potting mix. Temperature: 65-85°F (18-29°C). Humidity: High humidity preferred."
}`

// Identify returns the fixed identification instruction.
func Identify() string {
	return identifyPrompt
}

// Chat renders the persona preamble, the prior transcript as "role: content"
// lines and the latest question. Callers decide how much history to pass in.
func Chat(history []models.ChatMessage, question string) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	context := strings.Join(lines, "\n")

	return fmt.Sprintf(
		"You are a helpful gardening assistant. Previous context:\n%s\n\nUser question: %s\n\nProvide a helpful response about gardening and plant care. Keep it practical, clear and CONCISE.",
		context,
		question,
	)
}
