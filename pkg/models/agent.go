package models

// Agent defaults used by new agents and forms.
const (
	DefaultAgentModel  = "gpt-4o"
	DefaultTemperature = 0.7
)

// AgentModel is a language model an agent can run on.
type AgentModel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// AgentModels returns the supported models in display order.
func AgentModels() []AgentModel {
	return []AgentModel{
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: "OpenAI"},
		{ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI"},
		{ID: "claude-3-opus", Name: "Claude 3 Opus", Provider: "Anthropic"},
		{ID: "claude-3-sonnet", Name: "Claude 3 Sonnet", Provider: "Anthropic"},
		{ID: "claude-3-haiku", Name: "Claude 3 Haiku", Provider: "Anthropic"},
	}
}

// AgentStats are usage counters shown next to an agent.
type AgentStats struct {
	MessagesHandled int    `json:"messages_handled"  yaml:"messages_handled"  validate:"gte=0"`
	AvgResponseTime string `json:"avg_response_time" yaml:"avg_response_time"`
	PositiveRating  int    `json:"positive_rating"   yaml:"positive_rating"   validate:"gte=0,lte=100"`
}

// Agent is a configured AI persona. Automations and FAQs reference agents by id.
type Agent struct {
	Record `yaml:",inline"`

	Name         string         `json:"name"               yaml:"name"         validate:"required"`
	Description  string         `json:"description"        yaml:"description"`
	Instructions string         `json:"instructions"       yaml:"instructions"`
	Model        string         `json:"model"              yaml:"model"        validate:"required,oneof=gpt-3.5-turbo gpt-4o claude-3-opus claude-3-sonnet claude-3-haiku"`
	Temperature  float64        `json:"temperature"        yaml:"temperature"  validate:"gte=0,lte=1"`
	Stats        AgentStats     `json:"stats"              yaml:"stats"`
	Metadata     map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func (a *Agent) DisplayName() string {
	return a.Name
}

// Duplicate returns an inactive copy named "<name> (Copy)" with no id or timestamps.
func (a *Agent) Duplicate() *Agent {
	dup := *a
	dup.Record = Record{OwnerID: a.OwnerID}
	dup.Name = a.Name + " (Copy)"
	dup.IsActive = false
	dup.Metadata = cloneMap(a.Metadata)

	return &dup
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
