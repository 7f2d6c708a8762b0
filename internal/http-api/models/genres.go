package models

import (
	"sort"
	"strings"
)

// genreNames is the fixed TMDB genre vocabulary. Display names are Russian,
// matching the catalog's ru-RU ingestion locale. Codes and names are a
// versioned contract with the frontend; do not edit without bumping the index.
var genreNames = map[int]string{
	28:    "боевик",
	12:    "приключения",
	16:    "мультфильм",
	35:    "комедия",
	80:    "криминал",
	99:    "документальный",
	18:    "драма",
	10751: "семейный",
	14:    "фэнтези",
	36:    "история",
	27:    "ужасы",
	10402: "музыка",
	9648:  "детектив",
	10749: "мелодрама",
	878:   "фантастика",
	10770: "телевизионный фильм",
	53:    "триллер",
	10752: "военный",
	37:    "вестерн",
}

var genreIDByName = func() map[string]int {
	m := make(map[string]int, len(genreNames))
	for id, name := range genreNames {
		m[name] = id
	}
	return m
}()

// GenreNamesFor maps genre codes to display names, dropping unknown codes.
func GenreNamesFor(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// IsKnownGenre reports whether name (already normalized) is in the vocabulary.
func IsKnownGenre(name string) bool {
	_, ok := genreIDByName[name]
	return ok
}

// NormalizeGenre lowercases and trims a caller-supplied genre token.
func NormalizeGenre(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AllGenreNames returns the vocabulary's display names in stable order.
func AllGenreNames() []string {
	names := make([]string, 0, len(genreNames))
	for _, name := range genreNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
