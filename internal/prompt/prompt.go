package prompt

import (
	"strings"

	"github.com/faizanTadvi/SIHP1/internal/config"
)

// NotIdentifiable is the label the model is told to answer with when unsure.
const NotIdentifiable = "Breed not identifiable"

// Default is the instruction sent ahead of every image.
const Default = `
Analyze the animal in this image and identify its specific breed.
Your entire response MUST BE ONLY the breed's name and nothing else.
Focus exclusively on identifying common Indian breeds of cattle and buffaloes.
Examples: Gir Cow, Murrah Buffalo, Sahiwal Cattle.
If not identifiable, respond with '` + NotIdentifiable + `'.
`

// Prompt is the instruction text in effect for the process.
type Prompt string

func New(cfg *config.Config) Prompt {
	if strings.TrimSpace(cfg.Prompt) != "" {
		return Prompt(cfg.Prompt)
	}
	return Prompt(Default)
}

func (p Prompt) String() string {
	return string(p)
}
