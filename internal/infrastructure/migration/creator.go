package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/popstats/backend/migrations"
)

// Drivers lists the dialect directories under migrations/
var Drivers = []string{"postgres", "sqlite"}

const upTemplate = `-- {{.Driver}} migration {{.Version}}: {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`

const downTemplate = `-- {{.Driver}} rollback {{.Version}}: {{.Name}}
-- Created: {{.Timestamp}}

`

// MigrationFile is one generated up/down pair
type MigrationFile struct {
	Driver      string
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair for every driver under root
// (normally ./migrations). All dialects share the next sequence number, so the
// schemas stay in step.
func CreateMigration(root, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next, err := nextVersion(root)
	if err != nil {
		return nil, err
	}
	version := fmt.Sprintf("%06d", next)
	timestamp := time.Now().Format(time.RFC3339)

	var created []MigrationFile
	for _, driver := range Drivers {
		dir := filepath.Join(root, driver)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}

		mf := MigrationFile{
			Driver:      driver,
			Version:     version,
			Name:        name,
			Description: description,
			Timestamp:   timestamp,
			UpPath:      filepath.Join(dir, version+"_"+base+".up.sql"),
			DownPath:    filepath.Join(dir, version+"_"+base+".down.sql"),
		}
		if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
			removeAll(created)
			return nil, err
		}
		if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
			_ = os.Remove(mf.UpPath)
			removeAll(created)
			return nil, err
		}
		created = append(created, mf)
	}
	return created, nil
}

// nextVersion returns one past the highest version found in any driver directory
func nextVersion(root string) (int, error) {
	highest := 0
	for _, driver := range Drivers {
		names, err := listDir(os.DirFS(filepath.Join(root, driver)))
		if err != nil {
			return 0, err
		}
		for _, n := range names {
			if v, ok := versionOf(n); ok && v > highest {
				highest = v
			}
		}
	}
	return highest + 1, nil
}

func writeTemplate(path, tmplContent string, data MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func removeAll(files []MigrationFile) {
	for _, mf := range files {
		_ = os.Remove(mf.UpPath)
		_ = os.Remove(mf.DownPath)
	}
}

// sanitizeName lower-cases name and joins words with underscores
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the embedded migrations for driver as "000001_name"
func ListMigrations(driver string) ([]string, error) {
	sub, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded %s migrations: %w", driver, err)
	}
	return listDir(sub)
}

// listDir returns the base names of the *.up.sql files in fsys, sorted by version
func listDir(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		vi, _ := versionOf(names[i])
		vj, _ := versionOf(names[j])
		return vi < vj
	})
	return names, nil
}

func versionOf(name string) (int, bool) {
	prefix, _, _ := strings.Cut(name, "_")
	v, err := strconv.Atoi(prefix)
	return v, err == nil
}
