package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Parser converts an extracted statement table into raw rows. Rows keep the
// printed order and the header; an absent cell is an empty string.
type Parser interface {
	Parse(r io.Reader) ([][]string, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a table file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Format string
	Size   int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ForFile returns the parser matching the file extension, or nil.
func (r *Registry) ForFile(name string) Parser {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return nil
	}
	return r.Get(ext)
}

// ReadFile opens path and parses it with the given format, or by extension
// when format is empty.
func (r *Registry) ReadFile(path, format string) ([][]string, error) {
	var p Parser
	if format != "" {
		p = r.Get(format)
		if p == nil {
			return nil, fmt.Errorf("unknown table format %q (known: %s)", format, strings.Join(r.Formats(), ", "))
		}
	} else {
		p = r.ForFile(path)
		if p == nil {
			return nil, fmt.Errorf("cannot infer table format from %s (known: %s)", filepath.Base(path), strings.Join(r.Formats(), ", "))
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&JSONParser{})
	return r
}

// importDir is the subdirectory for extracted tables.
const importDir = "import"

// processedDir is the subdirectory for reconciled tables.
const processedDir = "import/processed"

// Scan returns files in <repoRoot>/import/ that a registered parser can read.
func (r *Registry) Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := r.ForFile(e.Name())
		if p == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Format: p.Format(),
			Size:   info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
