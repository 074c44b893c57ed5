package style

// Merge combines two rule lists. A rule of incoming whose signature equals
// that of a rule already present is merged with it: its properties win,
// nested objects merge recursively, new properties are appended, and the
// merged rule moves to the end so it ranks above everything loaded before
// it. All other rules are appended in order. Neither input slice, nor any
// rule style they reference, is modified.
func Merge(existing, incoming []Rule) []Rule {
	out := make([]Rule, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	for _, r := range incoming {
		sig := r.Signature()
		i := indexOf(out, sig)
		if i < 0 {
			r.Style = r.Style.Clone()
			out = append(out, r)
			continue
		}
		merged := out[i]
		merged.Style = out[i].Style.Merge(r.Style)
		merged.Layer = r.Layer
		out = append(out[:i], out[i+1:]...)
		out = append(out, merged)
	}
	return out
}

func indexOf(rules []Rule, sig string) int {
	for i, r := range rules {
		if r.Signature() == sig {
			return i
		}
	}
	return -1
}
