package graph

import "fmt"

// RenderSpec is a library-neutral description of how a node kind is drawn.
type RenderSpec struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Placeholder string `json:"placeholder"`
}

// Render maps a node kind to its render description.
func Render(kind Kind) (RenderSpec, error) {
	switch kind {
	case KindTrigger:
		return RenderSpec{
			Kind:        kind,
			Title:       "Trigger",
			Summary:     "Starts the automation when something happens",
			Color:       "blue",
			Icon:        "zap",
			Placeholder: "New Message",
		}, nil
	case KindAction:
		return RenderSpec{
			Kind:        kind,
			Title:       "Action",
			Summary:     "Does something on a connected platform",
			Color:       "green",
			Icon:        "play",
			Placeholder: "Send Reply",
		}, nil
	case KindCondition:
		return RenderSpec{
			Kind:        kind,
			Title:       "Condition",
			Summary:     "Branches the flow",
			Color:       "yellow",
			Icon:        "git-branch",
			Placeholder: "Contains Keyword",
		}, nil
	case KindOutput:
		return RenderSpec{
			Kind:        kind,
			Title:       "Output",
			Summary:     "Ends the flow with a final effect",
			Color:       "purple",
			Icon:        "flag",
			Placeholder: "Log Conversation",
		}, nil
	default:
		return RenderSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// RenderAll returns the render description of every kind.
func RenderAll() []RenderSpec {
	specs := make([]RenderSpec, 0, len(Kinds()))

	for _, kind := range Kinds() {
		spec, _ := Render(kind)
		specs = append(specs, spec)
	}

	return specs
}
