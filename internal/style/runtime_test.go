package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opmodel/alloyc/internal/tss"
)

func TestRuntimeModule(t *testing.T) {
	rules := []Rule{
		rule("#label", LayerBase, tss.Property{Name: "color", Value: tss.String("#000")}),
		rule("Window", LayerBase, tss.Property{Name: "backgroundColor", Value: tss.String("#fff")}),
		rule("Window[platform=android]", LayerBase, tss.Property{Name: "x", Value: num("1")}),
		rule(".big[formFactor=tablet if=Alloy.Globals.big]", LayerBase, tss.Property{Name: "top", Value: num("1")}),
	}

	assert.Equal(t,
		`module.exports = [`+
			`{"key":"Window","style":{backgroundColor:"#fff",}},`+
			`{"key":".big","style":{top:1,},"queries":{"formFactor":"isTablet","if":Alloy.Globals.big,}},`+
			`{"key":"#label","style":{color:"#000",}}`+
			`];`,
		RuntimeModule(rules, "ios"))

	assert.Equal(t, "module.exports = [];", RuntimeModule(nil, "ios"))
}
