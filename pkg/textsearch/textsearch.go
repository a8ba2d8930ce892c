// Package textsearch normaliza texto para búsquedas sin tildes ni mayúsculas
// ("Café" encuentra "cafe"), tal como filtran las tablas del panel.
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold pasa a minúsculas, elimina diacríticos y colapsa espacios.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Words devuelve las palabras normalizadas de la consulta.
func Words(query string) []string {
	return strings.Fields(Fold(query))
}

// Match indica si todas las palabras de query aparecen en alguno de los campos.
// Una consulta vacía coincide siempre.
func Match(query string, fields ...string) bool {
	words := Words(query)
	if len(words) == 0 {
		return true
	}
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = Fold(f)
	}
	for _, w := range words {
		found := false
		for _, f := range folded {
			if strings.Contains(f, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
