package isa

import (
	"errors"
	"fmt"
)

var errEmptyRegistry = errors.New("registry has no templates")

// Registry is the ordered set of templates that the decoder tries at every position.
// It is not modified after creation and can be shared between decoders.
type Registry struct {
	templates []*Template
	byTag     map[Tag][]*Template
}

// NewRegistry returns a registry that tries the templates in the passed order.
// More specific templates have to be passed before more general ones that
// would otherwise shadow them. Every template is validated again and the
// registry keeps its own copy of it.
func NewRegistry(templates ...*Template) (*Registry, error) {
	if len(templates) == 0 {
		return nil, &ConfigurationError{Index: -1, Reason: errEmptyRegistry.Error(), Err: errEmptyRegistry}
	}

	r := &Registry{
		templates: make([]*Template, 0, len(templates)),
		byTag:     map[Tag][]*Template{},
	}
	for i, t := range templates {
		if t == nil {
			return nil, &ConfigurationError{Index: i, Reason: fmt.Sprintf("template %d is nil", i)}
		}
		validated, err := NewTemplate(t.Tag, t.Fields...)
		if err != nil {
			return nil, err
		}
		validated.Comment = t.Comment

		r.templates = append(r.templates, validated)
		r.byTag[t.Tag] = append(r.byTag[t.Tag], validated)
	}
	return r, nil
}

// Templates returns the templates in registration order.
func (r *Registry) Templates() []*Template {
	templates := make([]*Template, len(r.templates))
	copy(templates, r.templates)
	return templates
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.templates)
}

// Lookup returns all templates of the tag in registration order.
func (r *Registry) Lookup(tag Tag) []*Template {
	templates := make([]*Template, len(r.byTag[tag]))
	copy(templates, r.byTag[tag])
	return templates
}
