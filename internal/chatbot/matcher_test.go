package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsDiacriticsAndCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"¿Cuánto cuesta?", "¿cuanto cuesta?"},
		{"EMERGENCIA", "emergencia"},
		{"Adiós", "adios"},
		{"señal de teléfono", "senal de telefono"},
		{"already plain", "already plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input))
	}
}

func TestRespondFirstMatchingRuleWins(t *testing.T) {
	m := NewMatcher([]Rule{
		{Keywords: []string{"precio"}, Response: "pricing"},
		{Keywords: []string{"servicio"}, Response: "services"},
	}, "fallback")

	// Both rules match; declaration order decides.
	assert.Equal(t, "pricing", m.Respond("precio del servicio"))
}

func TestRespondMatchesSubstrings(t *testing.T) {
	m := NewDefaultMatcher()

	// "cuanto" hits the pricing rule before the later "remoto" rule.
	reply := m.Respond("¿Cuánto cuesta el soporte remoto?")
	assert.Contains(t, reply, "Nuestros precios")
}

func TestRespondNormalizesBeforeMatching(t *testing.T) {
	m := NewDefaultMatcher()

	accented := m.Respond("TELÉFONO por favor")
	plain := m.Respond("telefono por favor")
	assert.Equal(t, plain, accented)
	assert.Contains(t, accented, "(432) 232-6946")
}

func TestRespondFallbackWhenNothingMatches(t *testing.T) {
	m := NewDefaultMatcher()
	assert.Equal(t, DefaultFallback, m.Respond("xyzzy"))
}

func TestDefaultRulesGreetingAndFarewell(t *testing.T) {
	m := NewDefaultMatcher()
	assert.Contains(t, m.Respond("hola, buenos días"), "Bienvenido")
	assert.Contains(t, m.Respond("adios"), "Hasta pronto")
}

func TestDefaultRulesEmergency(t *testing.T) {
	m := NewDefaultMatcher()
	reply := m.Respond("tengo una emergencia, el sistema está caído")
	assert.Contains(t, reply, "emergencia")
	assert.Contains(t, reply, "(432) 232-6946")
}

func TestDefaultRulesServerWithoutPriceWords(t *testing.T) {
	m := NewDefaultMatcher()
	reply := m.Respond("necesito hosting para mi servidor")
	assert.Contains(t, reply, "Administración de Servidores")
}
