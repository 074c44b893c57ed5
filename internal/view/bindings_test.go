package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/alloyc/internal/testutil"
)

func TestGenerate_BindingsGroupedByGuard(t *testing.T) {
	p := testutil.NewProject(t)
	p.Write("views/shelf.xml", `<Alloy>
	<Model src="book" instance="true" id="book"/>
	<View>
		<Label id="title" text="{book.title}"/>
		<Label id="tabletTitle" formFactor="tablet" text="{book.title}"/>
		<Label id="author">By {book.author}</Label>
	</View>
</Alloy>`)

	res, err := generate(t, p, "views/shelf.xml", Options{})
	require.NoError(t, err)

	assert.Equal(t, "$.book = Alloy.createModel('book');\n", res.PreCode)
	assert.NotContains(t, res.ViewCode, "text:", "bound properties are not set at creation")

	want := `var __alloyId1 = function() {` +
		`$.book.__transform = _.isFunction($.book.transform) ? $.book.transform() : $.book.toJSON();` +
		`$.title.text = $.book.__transform.title;` +
		`$.author.text = 'By ' + $.book.__transform.author;` +
		`if(Alloy.isTablet){$.tabletTitle.text = $.book.__transform.title;}` +
		`};$.book.on('fetch change destroy', __alloyId1);` +
		`exports.destroy = function () {$.book && $.book.off('fetch change destroy', __alloyId1);};`
	assert.Contains(t, res.ViewCode, want)

	require.Len(t, res.Bindings, 3)
	assert.Equal(t, []string{"title", "tabletTitle", "author"}, []string{
		res.Bindings[0].TargetID, res.Bindings[1].TargetID, res.Bindings[2].TargetID,
	})
	assert.Equal(t, "Alloy.isTablet", res.Bindings[1].Condition)
	assert.Equal(t, "tablet", res.Bindings[1].FormFactor)
}

func TestGenerate_BindingTeardownGuard(t *testing.T) {
	p := testutil.NewProject(t)
	p.Write("views/profile.xml", `<Alloy>
	<View formFactor="tablet">
		<Label id="name" text="{user.name}"/>
		<Label id="mail" text="{user.email}"/>
	</View>
</Alloy>`)

	res, err := generate(t, p, "views/profile.xml", Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ViewCode,
		`if(Alloy.isTablet){$.name.text = Alloy.Models.user.__transform.name;$.mail.text = Alloy.Models.user.__transform.email;}`)
	assert.Contains(t, res.ViewCode,
		`exports.destroy = function () {Alloy.Models.user && Alloy.isTablet && Alloy.Models.user.off('fetch change destroy', __alloyId1);};`)
}

func TestGenerate_BindingsPerModelVariable(t *testing.T) {
	p := testutil.NewProject(t)
	p.Write("views/summary.xml", `<Alloy>
	<View>
		<Label id="a" text="{settings.theme}"/>
		<Label id="b" text="{$.order.total} {settings.currency}"/>
		<Label id="c" text="{settings.locale}"/>
	</View>
</Alloy>`)

	res, err := generate(t, p, "views/summary.xml", Options{})
	require.NoError(t, err)

	// one handler per model variable, in first-seen order
	first := `var __alloyId1 = function() {` +
		`Alloy.Models.settings.__transform = _.isFunction(Alloy.Models.settings.transform) ? Alloy.Models.settings.transform() : Alloy.Models.settings.toJSON();` +
		`$.a.text = Alloy.Models.settings.__transform.theme;$.c.text = Alloy.Models.settings.__transform.locale;` +
		`};Alloy.Models.settings.on('fetch change destroy', __alloyId1);`
	second := `var __alloyId2 = function() {` +
		`$.order.__transform = _.isFunction($.order.transform) ? $.order.transform() : $.order.toJSON();` +
		`Alloy.Models.settings.__transform = _.isFunction(Alloy.Models.settings.transform) ? Alloy.Models.settings.transform() : Alloy.Models.settings.toJSON();` +
		`$.b.text = $.order.__transform.total + ' ' + Alloy.Models.settings.__transform.currency;` +
		`};$.order.on('fetch change destroy', __alloyId2);`
	assert.Contains(t, res.ViewCode, first+second)
	assert.Equal(t, []string{"$.order", "Alloy.Models.settings"}, res.Bindings[2].Models)
}

func TestBindingValue(t *testing.T) {
	s := newScope(nil, nil, "ios", false)
	s.localModels["current"] = "$.current"

	tests := []struct {
		in     string
		want   string
		models []string
	}{
		{"{book.title}", "Alloy.Models.book.__transform.title", []string{"Alloy.Models.book"}},
		{"{current.title}", "$.current.__transform.title", []string{"$.current"}},
		{"{$.item.name}", "$.item.__transform.name", []string{"$.item"}},
		{"Hi {user.name}!", "'Hi ' + Alloy.Models.user.__transform.name + '!'", []string{"Alloy.Models.user"}},
		{"{user.address.city}", "Alloy.Models.user.__transform.address.city", []string{"Alloy.Models.user"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, models := s.bindingValue(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.models, models)
		})
	}
}

func TestIsBinding(t *testing.T) {
	assert.True(t, isBinding("{book.title}"))
	assert.True(t, isBinding("Name: {user.name}"))
	assert.False(t, isBinding("{title}"))
	assert.False(t, isBinding("plain"))
}
