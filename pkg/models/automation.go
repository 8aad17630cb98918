package models

import (
	"time"

	"github.com/dukex/flowdesk/pkg/graph"
)

// Automation pairs a workflow graph with an optional agent and integration. The
// automation exclusively owns its graph.
type Automation struct {
	Record `yaml:",inline"`

	Name          string         `json:"name"                     yaml:"name"                     validate:"required,min=3"`
	Description   string         `json:"description"              yaml:"description"`
	AgentID       *string        `json:"agent_id,omitempty"       yaml:"agent_id,omitempty"`
	IntegrationID *string        `json:"integration_id,omitempty" yaml:"integration_id,omitempty"`
	FlowData      graph.Snapshot `json:"flow_data"                yaml:"flow_data"`
	Schedule      string         `json:"schedule,omitempty"       yaml:"schedule,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"       yaml:"metadata,omitempty"`
}

func (a *Automation) DisplayName() string {
	return a.Name
}

func (a *Automation) AgentRef() *string {
	return a.AgentID
}

func (a *Automation) SetAgentRef(agentID *string) {
	a.AgentID = agentID
}

// Graph rebuilds the workflow graph from the stored snapshot.
func (a *Automation) Graph() (*graph.Graph, error) {
	return graph.Deserialize(a.FlowData)
}

// CheckActivation reports why the automation cannot be active, or nil if it can.
func (a *Automation) CheckActivation() error {
	g, err := a.Graph()
	if err != nil {
		return err
	}

	err = g.Validate()
	if err != nil {
		return err
	}

	if a.Schedule != "" {
		_, err = ParseSchedule(a.Schedule)
	}

	return err
}

// NextRunAt returns the next time the schedule fires after t, or nil when the
// automation has no schedule.
func (a *Automation) NextRunAt(t time.Time) (*time.Time, error) {
	if a.Schedule == "" {
		return nil, nil
	}

	schedule, err := ParseSchedule(a.Schedule)
	if err != nil {
		return nil, err
	}

	next := schedule.Next(t)

	return &next, nil
}

// Duplicate returns an inactive copy named "<name> (Copy)" with its own graph copy.
func (a *Automation) Duplicate() *Automation {
	dup := *a
	dup.Record = Record{OwnerID: a.OwnerID}
	dup.Name = a.Name + " (Copy)"
	dup.IsActive = false
	dup.FlowData = graph.Snapshot{
		Nodes: append([]graph.Node(nil), a.FlowData.Nodes...),
		Edges: append([]graph.Edge(nil), a.FlowData.Edges...),
	}.Normalize()
	dup.Metadata = cloneMap(a.Metadata)

	return &dup
}
