// Package models defines the stored records of the automation dashboard.
package models

import "time"

// Record holds the fields every stored document shares.
type Record struct {
	ID        string    `json:"id"         yaml:"id"`
	OwnerID   string    `json:"owner_id"   yaml:"owner_id"   validate:"required"`
	IsActive  bool      `json:"is_active"  yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Base gives repositories access to the shared fields of a document.
func (r *Record) Base() *Record {
	return r
}

// Touch stamps the record as modified at now, setting CreatedAt on first save.
func (r *Record) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}

	r.UpdatedAt = now
}

// Document is implemented by every record kept in a repository.
type Document interface {
	Base() *Record
	// DisplayName is the value used when sorting by name.
	DisplayName() string
}

// AgentLinked is implemented by documents that may reference an agent.
type AgentLinked interface {
	Document
	AgentRef() *string
	SetAgentRef(agentID *string)
}
