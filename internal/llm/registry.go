package llm

import (
	"fmt"
	"strings"

	"github.com/samsaffron/term-chat/internal/config"
)

// clientKind is one row of the closed backend table: everything the
// dispatch layer knows about a backend type. The probe is implicit — a
// kind claims a clients entry whose type tag equals its name.
type clientKind struct {
	name     string
	models   func(entry config.ClientEntry, index int) []ModelInfo
	build    func(entry config.ClientEntry, model ModelInfo, cfg *config.Shared) (exchanger, error)
	template func() string
}

// clientKinds is the registry. The order is fixed: it is the probe order
// of InitClient and the display order of AllClients.
var clientKinds = []clientKind{
	{"openai", openAIModels, buildOpenAI, openAITemplate},
	{"localai", localAIModels, buildLocalAI, localAITemplate},
	{"anthropic", anthropicModels, buildAnthropic, anthropicTemplate},
	{"gemini", geminiModels, buildGemini, geminiTemplate},
	{"bedrock", bedrockModels, buildBedrock, bedrockTemplate},
}

func findKind(name string) (clientKind, bool) {
	for _, k := range clientKinds {
		if k.name == name {
			return k, true
		}
	}
	return clientKind{}, false
}

// AllClients returns the registered backend type names in registry order.
func AllClients() []string {
	names := make([]string, len(clientKinds))
	for i, k := range clientKinds {
		names[i] = k.name
	}
	return names
}

// CreateClientConfig returns a ready-to-paste clients entry template for
// the named backend type.
func CreateClientConfig(name string) (string, error) {
	kind, ok := findKind(name)
	if !ok {
		return "", fmt.Errorf("unknown client %s", name)
	}
	return kind.template(), nil
}

// InitClient builds the client selected by the configuration's model
// setting. Kinds are probed in registry order against the selected entry's
// type tag; no claim means the entry's type is not a known backend.
func InitClient(cfg *config.Shared) (*Client, error) {
	snap := cfg.Snapshot()
	model, err := CurrentModel(snap)
	if err != nil {
		return nil, err
	}
	entry := snap.Clients[model.Index]
	for _, k := range clientKinds {
		if entry.Type() != k.name {
			continue
		}
		backend, err := k.build(entry, model, cfg)
		if err != nil {
			return nil, err
		}
		return &Client{cfg: cfg, model: model, backend: backend}, nil
	}
	return nil, fmt.Errorf("unknown client %s at config.clients[%d]", model.Client, model.Index)
}

// ListModels returns the flattened catalog: every model offered by every
// configured client, in configuration order then per-client order, each
// tagged with its owning entry's position. Entries of unrecognized type
// contribute nothing; they fail later, at InitClient, where the error can
// name them.
func ListModels(cfg *config.Config) []ModelInfo {
	var models []ModelInfo
	for i, entry := range cfg.Clients {
		if kind, ok := findKind(entry.Type()); ok {
			models = append(models, kind.models(entry, i)...)
		}
	}
	return models
}

// CurrentModel resolves the configuration's model selection ("client" or
// "client:model") against the catalog. An empty selection means the first
// model of the first client. A model name outside the client's catalog is
// allowed — servers grow models faster than tables do — and carries a
// prefix-table token estimate.
func CurrentModel(cfg *config.Config) (ModelInfo, error) {
	if len(cfg.Clients) == 0 {
		return ModelInfo{}, fmt.Errorf("no clients configured")
	}

	clientName, modelName, _ := strings.Cut(cfg.Model, ":")
	if clientName == "" {
		clientName = cfg.Clients[0].Name()
	}

	index := -1
	for i, entry := range cfg.Clients {
		if entry.Name() == clientName {
			index = i
			break
		}
	}
	if index < 0 {
		return ModelInfo{}, fmt.Errorf("invalid model %q: no client named %q", cfg.Model, clientName)
	}

	var offered []ModelInfo
	if kind, ok := findKind(cfg.Clients[index].Type()); ok {
		offered = kind.models(cfg.Clients[index], index)
	}

	if modelName == "" {
		if len(offered) > 0 {
			return offered[0], nil
		}
		return ModelInfo{Client: clientName, Index: index}, nil
	}
	for _, m := range offered {
		if m.Name == modelName {
			return m, nil
		}
	}
	return ModelInfo{
		Client:    clientName,
		Name:      modelName,
		MaxTokens: lookupPrefix(strings.ToLower(modelName), maxTokensTable),
		Index:     index,
	}, nil
}
