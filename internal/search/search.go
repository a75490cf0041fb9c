// Package search filters a cached file list by a free-text term.
package search

import (
	"strings"

	"github.com/samber/lo"

	"github.com/dmitrijs2005/filekeeper/internal/models"
)

type Mode string

const (
	ModeName        Mode = "name"
	ModeDescription Mode = "description"
	ModeDate        Mode = "date"
	ModeAll         Mode = "all"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeAll, ModeName, ModeDescription, ModeDate}

// ParseMode maps s onto a Mode; unknown values mean ModeAll.
func ParseMode(s string) Mode {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if lo.Contains(Modes, m) {
		return m
	}
	return ModeAll
}

// Filter returns the records whose selected field contains term,
// case-insensitively. An empty or blank term returns files unchanged;
// otherwise the term is matched as typed, surrounding spaces included.
func Filter(files []models.FileRecord, term string, mode Mode) []models.FileRecord {
	if strings.TrimSpace(term) == "" {
		return files
	}
	needle := strings.ToLower(term)

	return lo.Filter(files, func(f models.FileRecord, _ int) bool {
		return lo.SomeBy(fields(f, mode), func(v string) bool {
			return strings.Contains(strings.ToLower(v), needle)
		})
	})
}

func fields(f models.FileRecord, mode Mode) []string {
	switch mode {
	case ModeName:
		return []string{f.Name}
	case ModeDescription:
		return []string{f.Description}
	case ModeDate:
		return []string{f.UploadedAt}
	default:
		return []string{f.Name, f.Description, f.UploadedAt}
	}
}
