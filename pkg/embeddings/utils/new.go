// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/papercomputeco/hindsight/pkg/embeddings"
	"github.com/papercomputeco/hindsight/pkg/embeddings/ollama"
)

// ProviderOllama is the only embedding provider currently wired in.
const ProviderOllama = "ollama"

// NewEmbedderOpts selects and configures an embedding provider.
type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
}

// NewEmbedder constructs the embedder named by ProviderType.
func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	if o.ProviderType != ProviderOllama {
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
	return ollama.NewEmbedder(ollama.EmbedderConfig{
		BaseURL: o.TargetURL,
		Model:   o.Model,
	})
}
