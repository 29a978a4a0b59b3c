package query

import "strconv"

// Params is a deduplicating registry mapping values to placeholder names.
// It is an immutable value: Insert and Merge return new registries and never
// modify the receiver, so any number of builders may grow divergent
// registries from a shared ancestor.
//
// Placeholder names have the form param<N> with N assigned from a counter
// that only increases. Names are never reused for a different value within
// one registry's lineage.
type Params struct {
	names  []string
	values map[string]any
	next   int
}

// Insert registers a value and returns the registry holding it together with
// the value's placeholder name. If an equal value is already registered (see
// the equality rule on valuesEqual), the existing name and the receiver are
// returned unchanged.
func (p Params) Insert(v any) (Params, string) {
	for _, name := range p.names {
		if valuesEqual(p.values[name], v) {
			return p, name
		}
	}

	name := "param" + strconv.Itoa(p.next+1)
	names := appendCopy(p.names, name)
	values := make(map[string]any, len(p.values)+1)
	for k, val := range p.values {
		values[k] = val
	}
	values[name] = v
	return Params{names: names, values: values, next: p.next + 1}, name
}

// Merge returns the union of two registries, with the counter set to the
// larger of the two. Registries merged this way must share a lineage (one
// was grown from a snapshot of the other), so a name present in both maps to
// the same value; entries of the receiver win on conflict.
func (p Params) Merge(o Params) Params {
	if o.Len() == 0 && o.next <= p.next {
		return p
	}
	if p.Len() == 0 && p.next <= o.next {
		return o
	}

	names := make([]string, 0, len(p.names)+len(o.names))
	values := make(map[string]any, len(p.values)+len(o.values))
	for _, name := range p.names {
		names = append(names, name)
		values[name] = p.values[name]
	}
	for _, name := range o.names {
		if _, ok := values[name]; !ok {
			names = append(names, name)
			values[name] = o.values[name]
		}
	}
	next := p.next
	if o.next > next {
		next = o.next
	}
	return Params{names: names, values: values, next: next}
}

// Len returns the number of registered values.
func (p Params) Len() int { return len(p.names) }

// Value returns the value registered under a placeholder name.
func (p Params) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns the placeholder names in registration order.
func (p Params) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Map returns a fresh name-to-value map of all registered parameters.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
