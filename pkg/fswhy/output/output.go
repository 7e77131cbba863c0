// Package output renders a view of a scanned tree in various formats
// (pretty, plain, json, yaml) for non-interactive use.
//
// The package uses a registry so formatters can be selected by name:
//
//	formatter, err := output.Get("plain")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.NewResult(state)); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
)

var logger = logging.Get("output")

// Row is one visible entry of the view.
type Row struct {
	// Index is the row number a user would type to toggle this entry.
	Index int `json:"index" yaml:"index"`

	// Depth is the distance from the root (root = 0).
	Depth int `json:"depth" yaml:"depth"`

	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`

	// Kind is "dir" or "file".
	Kind string `json:"kind" yaml:"kind"`

	// Category is a coarse type such as "Image" or "Archive".
	Category string `json:"category" yaml:"category"`

	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// Percent is the share of the root's size, 0-100.
	Percent float64 `json:"percent" yaml:"percent"`

	// Expanded is set for directories whose children follow.
	Expanded bool `json:"expanded" yaml:"expanded"`
}

// IsDir reports whether the row is a directory.
func (r Row) IsDir() bool {
	return r.Kind == tree.Directory.String()
}

// Result contains the complete output data for formatting.
type Result struct {
	// Source is the scanned root path.
	Source string

	// Sort is the sort mode the rows are in.
	Sort string

	// Rows are the visible entries in display order.
	Rows []Row

	// Stats summarizes the scan.
	Stats types.ScanStats

	// Skipped lists entries that could not be read.
	Skipped []types.ScanError
}

// NewResult captures the current projection of s.
func NewResult(s *view.State) *Result {
	t := s.Tree()
	items := s.Flatten()

	var total int64
	if t.Len() > 0 {
		total = t.Size(t.Root())
	}

	rows := make([]Row, len(items))
	for i, it := range items {
		n := t.Node(it.ID)
		var pct float64
		if total > 0 {
			pct = float64(n.Size) * 100 / float64(total)
		}
		rows[i] = Row{
			Index:     i,
			Depth:     it.Depth,
			Path:      n.Path,
			Name:      n.Name,
			Kind:      n.Kind.String(),
			Category:  n.Category(),
			Size:      n.Size,
			SizeHuman: types.FormatSize(n.Size),
			Percent:   pct,
			Expanded:  s.IsExpanded(it.ID),
		}
	}

	r := &Result{
		Sort:    s.SortMode().String(),
		Rows:    rows,
		Stats:   t.Stats(),
		Skipped: t.Skipped(),
	}
	if t.Len() > 0 {
		r.Source = t.Node(t.Root()).Path
	}
	return r
}

// TotalSize returns the size of the root row.
func (r *Result) TotalSize() int64 {
	if len(r.Rows) == 0 {
		return 0
	}
	return r.Rows[0].Size
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any
// existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// Write formats r with the named formatter and writes it to w.
func Write(w io.Writer, name string, r *Result) error {
	formatter, err := Get(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return fmt.Errorf("formatting %s output: %w", name, err)
	}

	logger.Debug("rendered output", "format", name, "rows", len(r.Rows), "bytes", buf.Len())
	_, err = w.Write(buf.Bytes())
	return err
}
