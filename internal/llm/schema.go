package llm

// Kind is the closed set of field kinds a schema property can take. Keeping
// the set small lets the decoder validate structurally instead of trusting
// duck-typed access.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindObject
	KindList
)

func (k Kind) jsonType() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindList:
		return "array"
	default:
		return "string"
	}
}

// Property describes one expected output field.
type Property struct {
	Name        string
	Kind        Kind
	Description string
	Enum        []string // string kinds only
	Items       Kind     // element kind for KindList
}

// Schema is a declarative description of the shape expected back from the
// model. Owned by each tool and never mutated after construction.
type Schema struct {
	Properties []Property
	Required   []string
}

// JSONSchema renders the schema as a JSON-Schema object map, the form both the
// generation request and the local validator consume.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		prop := map[string]any{"type": p.Kind.jsonType()}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Kind == KindList {
			prop["items"] = map[string]any{"type": p.Items.jsonType()}
		}
		props[p.Name] = prop
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
