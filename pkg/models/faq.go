package models

import "strings"

// FAQ is a question/answer pair an agent can draw on.
type FAQ struct {
	Record `yaml:",inline"`

	Question string   `json:"question"           yaml:"question"           validate:"required"`
	Answer   string   `json:"answer"             yaml:"answer"             validate:"required"`
	Keywords []string `json:"keywords"           yaml:"keywords"           validate:"dive,required"`
	AgentID  *string  `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
}

func (f *FAQ) DisplayName() string {
	return f.Question
}

func (f *FAQ) AgentRef() *string {
	return f.AgentID
}

func (f *FAQ) SetAgentRef(agentID *string) {
	f.AgentID = agentID
}

// ParseKeywords splits a comma separated keyword list, trimming blanks and dropping
// empty entries.
func ParseKeywords(raw string) []string {
	keywords := make([]string, 0)

	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keywords = append(keywords, k)
		}
	}

	return keywords
}
