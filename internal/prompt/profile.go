// Package prompt holds the default system prompt and the optional YAML
// profile that overrides model settings per invocation.
package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt frames the model as a store assistant bound to the
// registered catalog tools.
const DefaultSystemPrompt = `You are a helpful assistant for a Shopify store.
Answer questions about the store's product catalog using the available tools.
Use get_products to browse the catalog and get_product_by_id when the user
refers to a specific product. If a tool reports an error, explain the problem
to the user instead of guessing. Keep answers short and factual.`

// Profile overrides model settings and the system prompt for one run.
type Profile struct {
	Model        string   `yaml:"model,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	MaxTokens    *int     `yaml:"max_tokens,omitempty"`
	SystemPrompt string   `yaml:"system_prompt,omitempty"`
}

// LoadProfile reads a YAML profile from disk.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

// System returns the profile's system prompt or the default.
func (p *Profile) System() string {
	if p != nil && p.SystemPrompt != "" {
		return p.SystemPrompt
	}
	return DefaultSystemPrompt
}
