package record

// ActivityMarkers are the keys that identify a bare activity object.
var ActivityMarkers = []string{"name", "startTime", "distance"}

// UnnamedPlaceholder is the name the API gives activities nobody named.
const UnnamedPlaceholder = "Unnamed"

// Project normalises a payload into an ordered list of records:
//
//  1. a list keeps its object elements;
//  2. an object yields the object elements of its first list-valued field,
//     in wire order, ignoring any later fields;
//  3. an object with no list field but carrying one of markers is itself
//     the single record;
//  4. anything else yields nothing.
//
// Pass nil markers to skip step 3.
func Project(p Payload, markers []string) []Record {
	switch v := p.Value.(type) {
	case []any:
		return records(v)
	case map[string]any:
		for _, k := range p.Keys() {
			if list, ok := v[k].([]any); ok {
				return records(list)
			}
		}
		for _, m := range markers {
			if _, ok := v[m]; ok {
				return []Record{Record(v)}
			}
		}
	}
	return nil
}

// ProjectByDate normalises wellness payloads, which arrive either as a list
// or as an object keyed by date. Keyed entries get their key injected as
// "date" when they do not already carry one.
func ProjectByDate(p Payload) []Record {
	switch v := p.Value.(type) {
	case []any:
		return records(v)
	case map[string]any:
		var out []Record
		for _, k := range p.Keys() {
			m, ok := v[k].(map[string]any)
			if !ok {
				continue
			}
			entry := Record(m)
			if !entry.Has("date") {
				entry = entry.Clone()
				entry["date"] = k
			}
			out = append(out, entry)
		}
		return out
	}
	return nil
}

// Named reports whether r carries a real name.
func Named(r Record) bool {
	name, ok := r.Get("name")
	if !ok || !Truthy(name) {
		return false
	}
	s, isString := name.(string)
	return !isString || s != UnnamedPlaceholder
}

// FilterNamed keeps the named records, preserving order.
func FilterNamed(in []Record) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if Named(r) {
			out = append(out, r)
		}
	}
	return out
}
