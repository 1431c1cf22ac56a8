package suggest

import "fmt"

const promptTemplate = `
You are a world-class graphic designer specializing in typography for social media. For the following quote, provide optimal design parameters to be placed on a background image. The output must be a single, valid JSON object that adheres to the provided schema.

Quote: "%s"

Generate a design that is visually appealing, modern, and ensures the text is highly readable. Consider common social media practices for quote images.
`

func buildPrompt(quote string) string {
	return fmt.Sprintf(promptTemplate, quote)
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

func str(desc string) *schema { return &schema{Type: "STRING", Description: desc} }
func num(desc string) *schema { return &schema{Type: "NUMBER", Description: desc} }

// responseSchema 与 style.Suggestion 的 JSON 字段一一对应。
var responseSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"fontFamily": str("A beautiful, web-safe font family (e.g., 'Georgia, serif', 'Helvetica, sans-serif')."),
		"fontSize":   num("A relative font size as a percentage of the canvas width (e.g., 8 for 8%). Value should be between 3 and 15."),
		"color":      str("A hex code for the text color for good contrast (e.g., '#FFFFFF')."),
		"textAlign":  str("Text alignment: 'left', 'center', or 'right'."),
		"position": {
			Type: "OBJECT",
			Properties: map[string]*schema{
				"x": num("X-coordinate percentage of the canvas width (e.g., 50 for center)."),
				"y": num("Y-coordinate percentage of the canvas height (e.g., 50 for center)."),
			},
			Required: []string{"x", "y"},
		},
		"textShadow": {
			Type: "OBJECT",
			Properties: map[string]*schema{
				"color":      str("Hex code for a subtle shadow color (e.g., '#000000')."),
				"offsetX":    num("Shadow's horizontal offset in pixels."),
				"offsetY":    num("Shadow's vertical offset in pixels."),
				"blurRadius": num("Shadow's blur radius in pixels."),
			},
			Required: []string{"color", "offsetX", "offsetY", "blurRadius"},
		},
	},
	Required: []string{"fontFamily", "fontSize", "color", "textAlign", "position", "textShadow"},
}
