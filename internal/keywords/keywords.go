// Package keywords genera el conjunto de palabras clave que se guarda junto a
// cada registro para poder buscar por prefijo sin un índice de texto.
package keywords

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ProductMinPrefix  = 4
	BusinessMinPrefix = 1
)

// Generate devuelve los prefijos en minúscula del nombre completo (desde
// minPrefix runas) y cada palabra en minúscula y capitalizada. Sin duplicados,
// en orden de aparición.
func Generate(name string, minPrefix int) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return []string{}
	}
	if minPrefix < 1 {
		minPrefix = 1
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, len(lower))
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	runes := []rune(lower)
	for i := minPrefix; i <= len(runes); i++ {
		add(string(runes[:i]))
	}

	title := cases.Title(language.Und)
	for _, word := range strings.Fields(lower) {
		add(word)
		add(title.String(word))
	}
	return out
}

// Normalize prepara un término de búsqueda para compararlo contra el conjunto.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
