package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opmodel/alloyc/internal/tss"
)

func keys(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Key()
	}
	return out
}

func TestMatch(t *testing.T) {
	rules := []Rule{
		rule("#label", LayerBase),
		rule(".big", LayerBase),
		rule("Label", LayerBase),
		rule("Ti.UI.Label[platform=android]", LayerBase),
		rule(".small", LayerBase),
		rule("Label[formFactor=tablet]", LayerBase),
		rule("#other", LayerBase),
		rule("Button", LayerBase),
		rule(".big[platform=ios]", LayerPlatform),
	}

	target := Target{APIName: "Ti.UI.Label", Classes: []string{"big"}, ID: "label"}

	t.Run("ios", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Label", "Label[formFactor=tablet]", ".big", ".big[platform=ios]", "#label"},
			keys(Match(rules, target, "ios")))
	})

	t.Run("android", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Label", "Ti.UI.Label[platform=android]", "Label[formFactor=tablet]", ".big", "#label"},
			keys(Match(rules, target, "android")))
	})

	t.Run("no id no classes", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Button"},
			keys(Match(rules, Target{APIName: "Ti.UI.Button"}, "ios")))
	})
}

func TestForPlatform(t *testing.T) {
	rules := []Rule{
		rule("A[platform=ios]", LayerBase, tss.Property{Name: "a", Value: num("1")}),
		rule("B", LayerBase),
		rule("C[platform=android]", LayerBase),
	}
	assert.Equal(t, []string{"A[platform=ios]", "B"}, keys(ForPlatform(rules, "ios")))
}
