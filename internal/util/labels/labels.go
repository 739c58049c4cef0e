package labels

// Standard label keys.
const (
	// KeyInstance identifies the bootstrap instance a resource belongs to.
	KeyInstance = "genesis-instance"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "managed-by"
)

// ManagedByGenesis is the KeyManagedBy value set on every resource.
const ManagedByGenesis = "genesis"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the instance name pre-set.
func NewLabelBuilder(instance string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyInstance:  instance,
			KeyManagedBy: ManagedByGenesis,
		},
	}
}

// WithManagedBy sets who manages this resource.
func (lb *LabelBuilder) WithManagedBy(manager string) *LabelBuilder {
	lb.labels[KeyManagedBy] = manager
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}
