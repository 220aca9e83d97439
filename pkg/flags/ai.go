package flags

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/uzairabid1/customer-simulator/pkg/oracle"
)

// AIFlags contains flags for the LLM-backed decision/text oracle.
type AIFlags struct {
	Endpoint string
	Model    string
	Timeout  time.Duration
	Disabled bool
}

func NewAIFlags() *AIFlags {
	return &AIFlags{}
}

func (f *AIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Endpoint, "ai-endpoint", "", "URL for an OpenAI-compatible endpoint. Set OPENAI_API_KEY to specify an API key.")
	fs.StringVar(&f.Model, "ai-model", "gpt-4o-mini", "The AI model used for personas, decisions and review text")
	fs.DurationVar(&f.Timeout, "ai-timeout", 10*time.Second, "Per-call timeout for the AI oracle before falling back")
	fs.BoolVar(&f.Disabled, "no-ai", false, "Run entirely on the deterministic fallback oracle")
}

// GetOracle returns the LLM-backed oracle, or nil when disabled; the engine
// treats a nil oracle as fallback-only.
func (f *AIFlags) GetOracle() oracle.Oracle {
	if f.Disabled {
		return nil
	}
	return oracle.NewClient(f.Endpoint, f.Model, f.Timeout)
}
