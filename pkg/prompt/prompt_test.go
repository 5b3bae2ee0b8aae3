package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars map[string]string
		want string
	}{
		{"simple", "Hello {{name}}!", map[string]string{"name": "Ana"}, "Hello Ana!"},
		{"spaces", "Hello {{ name }}!", map[string]string{"name": "Ana"}, "Hello Ana!"},
		{"unknown is empty", "Owed: {{amount}}.", nil, "Owed: ."},
		{"extra ignored", "x", map[string]string{"unused": "y"}, "x"},
		{"repeated", "{{a}}-{{a}}", map[string]string{"a": "1"}, "1-1"},
		{"not recursive", "{{a}}", map[string]string{"a": "{{b}}", "b": "no"}, "{{b}}"},
		{"single braces untouched", "{a}", map[string]string{"a": "1"}, "{a}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.tmpl, tt.vars))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Placeholders("{{b}} {{a}} {{ b }}"))
	assert.Empty(t, Placeholders("plain"))
}

func TestDefaultLibrary_AllKindsHaveBothLocales(t *testing.T) {
	lib := Default()
	kinds := lib.Kinds()
	assert.Len(t, kinds, 6)
	for _, k := range kinds {
		for _, loc := range []string{"en", "es"} {
			text, err := lib.Template(k, loc)
			require.NoError(t, err, "%s/%s", k, loc)
			assert.NotEmpty(t, text)
		}
	}
}

func TestRender_LocaleFallback(t *testing.T) {
	lib := Default()
	vars := map[string]string{"debtor_name": "Juan", "amount": "$120.00", "creditor_name": "Acme"}

	en, err := lib.Render(KindSMS, "fr", vars)
	require.NoError(t, err)
	enDirect, err := lib.Render(KindSMS, "en", vars)
	require.NoError(t, err)
	assert.Equal(t, enDirect, en)

	es, err := lib.Render(KindSMS, "es-MX", vars)
	require.NoError(t, err)
	assert.Contains(t, es, "Juan")
	assert.Contains(t, es, "adeudado a Acme")
	assert.NotContains(t, es, "{{")
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := Default().Render("letter", "en", nil)
	assert.Error(t, err)
}

func TestRender_ToneAndLanguage(t *testing.T) {
	vars := WithOptions(map[string]string{"debtor_name": "Ana"}, "empathetic", "Spanish")
	out, err := Default().Render(KindEmail, "en", vars)
	require.NoError(t, err)
	assert.Contains(t, out, "Tone: empathetic.")
	assert.Contains(t, out, "Write in Spanish.")

	kept := WithOptions(map[string]string{VarTone: "firm"}, "friendly", "")
	assert.Equal(t, "firm", kept[VarTone])
	_, ok := kept[VarLanguage]
	assert.False(t, ok)
}

func TestRegister_Overrides(t *testing.T) {
	lib := NewLibrary()
	lib.Register(KindSMS, "EN", "hi {{name}}")
	out, err := lib.Render(KindSMS, "", map[string]string{"name": "Bo"})
	require.NoError(t, err)
	assert.Equal(t, "hi Bo", out)

	lib.Register(KindEmail, "es", "hola")
	_, err = lib.Render(KindEmail, "de", nil)
	assert.Error(t, err, "no en variant to fall back to")
}
