// Package anki reads Anki .apkg decks as a source of training phrases.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/pyime/internal/pinyin"
	_ "modernc.org/sqlite"
)

// collectionFiles are the SQLite collection names, newest format first.
var collectionFiles = []string{"collection.anki21", "collection.anki2"}

// Package is an opened Anki .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Notes   []*Note
}

// Model is an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
}

// Field is one field of a note type.
type Field struct {
	Name string `json:"name"`
	Ord  int    `json:"ord"`
}

// Note is an Anki note with its fields split.
type Note struct {
	ID      int64
	ModelID int64
	Tags    string
	Fields  []string
}

// OpenPackage extracts the collection of an .apkg file and loads its note
// types and notes.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
	}

	tempDir, err := os.MkdirTemp("", "pyime-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	dbPath, err := pkg.extractCollection()
	if err != nil {
		pkg.Close()
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pkg.db = db

	if err := pkg.loadModels(); err != nil {
		pkg.Close()
		return nil, err
	}
	if err := pkg.loadNotes(); err != nil {
		pkg.Close()
		return nil, err
	}

	return pkg, nil
}

// extractCollection unzips the collection database only; media files are
// not needed for training.
func (p *Package) extractCollection() (string, error) {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return "", fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
	}

	for _, name := range collectionFiles {
		f, ok := files[name]
		if !ok {
			continue
		}
		dst := filepath.Join(p.tempDir, name)
		if err := copyZipFile(f, dst); err != nil {
			return "", fmt.Errorf("extracting %s: %w", name, err)
		}
		return dst, nil
	}

	return "", fmt.Errorf("no collection database in %s", p.path)
}

func copyZipFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// loadModels parses the note types from the col table.
func (p *Package) loadModels() error {
	var models string
	if err := p.db.QueryRow("SELECT models FROM col").Scan(&models); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal([]byte(models), &byID); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}

	for _, raw := range byID {
		var m Model
		if err := json.Unmarshal(raw, &m); err != nil {
			continue // Skip malformed models
		}
		p.Models[m.ID] = &m
	}
	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`SELECT id, mid, tags, flds FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			note Note
			flds string
		)
		if err := rows.Scan(&note.ID, &note.ModelID, &note.Tags, &flds); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		// Fields are separated by ASCII 31
		note.Fields = strings.Split(flds, "\x1f")
		p.Notes = append(p.Notes, &note)
	}

	return rows.Err()
}

// FieldValue returns a field of note by name, case-insensitively.
func (p *Package) FieldValue(note *Note, name string) string {
	model := p.Models[note.ModelID]
	if model == nil {
		return ""
	}

	for _, field := range model.Fields {
		if strings.EqualFold(field.Name, name) && field.Ord < len(note.Fields) {
			return note.Fields[field.Ord]
		}
	}
	return ""
}

// FieldNames returns the distinct field names over all note types, sorted
// by note type and field order.
func (p *Package) FieldNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, note := range p.Notes {
		model := p.Models[note.ModelID]
		if model == nil {
			continue
		}
		for _, f := range model.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	return names
}

// Phrases returns the runs of hanzi found in the named field of every
// note. An empty field name scans all fields. Markup and Latin text
// separate runs.
func (p *Package) Phrases(field string) [][]string {
	var phrases [][]string
	for _, note := range p.Notes {
		texts := note.Fields
		if field != "" {
			texts = []string{p.FieldValue(note, field)}
		}
		for _, text := range texts {
			phrases = append(phrases, pinyin.HanziRuns(text)...)
		}
	}
	return phrases
}

// Close removes the extracted files.
func (p *Package) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
	}
	return nil
}

// Summary returns a summary of the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Anki Package: %s\n", p.path))
	sb.WriteString(fmt.Sprintf("  Note types: %d\n", len(p.Models)))
	for _, m := range p.Models {
		sb.WriteString(fmt.Sprintf("    - %s (%d fields)\n", m.Name, len(m.Fields)))
	}
	sb.WriteString(fmt.Sprintf("  Notes: %d\n", len(p.Notes)))

	return sb.String()
}
