package image

import "context"

// Adapter generates and edits images for a single upstream model. Name is
// the short identifier clients select by; the upstream model string stays
// internal to the adapter.
type Adapter interface {
	Name() string
	Synthesize(ctx context.Context, prompt, size string) ([]byte, error)
	Edit(ctx context.Context, src, mask []byte, prompt, size string) ([]byte, error)
}

// Reorder returns the adapters with the one matching preferred moved to the
// front. Relative order of the rest is preserved. An unknown preferred name
// leaves the slice untouched.
func Reorder(adapters []Adapter, preferred string) []Adapter {
	if preferred == "" {
		return adapters
	}
	for i, a := range adapters {
		if a.Name() == preferred {
			out := make([]Adapter, 0, len(adapters))
			out = append(out, a)
			out = append(out, adapters[:i]...)
			out = append(out, adapters[i+1:]...)
			return out
		}
	}
	return adapters
}

// Names lists adapter identifiers in order.
func Names(adapters []Adapter) []string {
	out := make([]string, len(adapters))
	for i, a := range adapters {
		out[i] = a.Name()
	}
	return out
}
