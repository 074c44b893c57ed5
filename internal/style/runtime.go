package style

import (
	"sort"
	"strings"

	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/tss"
)

// RuntimeModule renders the rules applicable on platform as a CommonJS
// module consumed by the runtime styling API:
//
//	module.exports = [{"key":"Label","style":{...},"queries":{...}},...];
//
// Platform queries are resolved here and dropped; formFactor becomes the
// name of the runtime flag ("isTablet"); if is kept as an expression.
func RuntimeModule(rules []Rule, platform string) string {
	applicable := ForPlatform(rules, platform)
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Kind < applicable[j].Kind
	})

	var b strings.Builder
	b.WriteString("module.exports = [")
	for i, r := range applicable {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"key":`)
		b.WriteString(tss.Quote(r.Selector, '"'))
		b.WriteString(`,"style":`)
		b.WriteString(tss.Emit(r.Style))
		if r.Queries.Conditional() {
			b.WriteString(`,"queries":{`)
			if r.Queries.FormFactor != "" {
				b.WriteString(`"formFactor":`)
				b.WriteString(tss.Quote("is"+core.Ucfirst(r.Queries.FormFactor), '"'))
				b.WriteByte(',')
			}
			if r.Queries.If != "" {
				b.WriteString(`"if":`)
				b.WriteString(r.Queries.If)
				b.WriteByte(',')
			}
			b.WriteByte('}')
		}
		b.WriteByte('}')
	}
	b.WriteString("];")
	return b.String()
}
