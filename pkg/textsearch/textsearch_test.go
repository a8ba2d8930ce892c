package textsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Café  Molido":   "cafe molido",
		"ÑANDÚ":          "nandu",
		"  Pingüino ":    "pinguino",
		"":               "",
		"Azúcar Morena ": "azucar morena",
	}
	for in, want := range cases {
		assert.Equal(t, want, Fold(in), in)
	}
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("", "cualquier cosa"))
	assert.True(t, Match("cafe", "Café Molido 500g", "BEB-001"))
	assert.True(t, Match("molido beb", "Café Molido 500g", "BEB-001"), "cada palabra puede venir de un campo distinto")
	assert.False(t, Match("cafe grano", "Café Molido 500g"))
	assert.True(t, Match("MARÍA", "maria perez"))
}
