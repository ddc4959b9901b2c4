package layer

import "fmt"

// Kind tells where a layer's schema and popup defaults come from.
type Kind int

const (
	// Hosted layers embed schema and popup metadata in the collection itself.
	Hosted Kind = iota + 1
	// Registered layers are described by the item's bulk data payload.
	Registered
)

func (k Kind) String() string {
	switch k {
	case Hosted:
		return "hosted"
	case Registered:
		return "registered"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Schema is the resolved service-side layer, tagged with its kind once at
// resolution time.
type Schema struct {
	kind  Kind
	index int
	layer Layer
}

// HostedSchema wraps a layer taken from the collection layers.
func HostedSchema(index int, l Layer) Schema {
	return Schema{kind: Hosted, index: index, layer: l}
}

// RegisteredSchema wraps a layer taken from the bulk data payload.
func RegisteredSchema(index int, l Layer) Schema {
	return Schema{kind: Registered, index: index, layer: l}
}

// Kind returns the service kind.
func (s Schema) Kind() Kind { return s.kind }

// Index returns the layer position within the collection.
func (s Schema) Index() int { return s.index }

// Layer returns the schema layer.
func (s Schema) Layer() Layer { return s.layer }
