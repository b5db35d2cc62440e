package lessons

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"samskrtam-drill/internal/domain"
)

//go:embed data/*.json
var embedded embed.FS

// Embedded returns the lesson files bundled with the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("lessons: embedded data: %v", err))
	}
	return sub
}

// FSLoader reads one lesson per *.json file at the root of a filesystem.
// Files are visited in name order so that ties in lesson numbering keep a
// stable discovery order.
type FSLoader struct {
	fsys fs.FS
}

func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

func (l *FSLoader) LoadLessons(ctx context.Context) ([]domain.Lesson, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read lesson dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var result []domain.Lesson
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(l.fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var lesson domain.Lesson
		if err := json.Unmarshal(data, &lesson); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		result = append(result, lesson)
	}
	return result, nil
}
