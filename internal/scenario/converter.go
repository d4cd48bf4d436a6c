// Package scenario runs the archive-to-scenario conversion: parse, filter,
// transform, assemble.
package scenario

import (
	"fmt"
	"io"

	"github.com/raysh454/harplay/internal/archive"
	"github.com/raysh454/harplay/internal/filter"
	"github.com/raysh454/harplay/internal/logging"
	"github.com/raysh454/harplay/internal/model"
	"github.com/raysh454/harplay/internal/transform"
)

// Options is the per-call configuration. It is passed explicitly to every
// conversion; a Converter holds no rule state of its own.
type Options struct {
	Rules filter.Rules
}

// Converter turns archives into scenario definitions. It is safe for
// concurrent use as long as its Transformer is.
type Converter struct {
	transformer *transform.Transformer
	logger      logging.Logger
}

func NewConverter(t *transform.Transformer, logger logging.Logger) *Converter {
	if t == nil {
		t = transform.New(nil, nil)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{
		transformer: t,
		logger:      logger.With(logging.Field{Key: "component", Value: "converter"}),
	}
}

// Convert reads an archive from r. The caller owns r and closes it.
func (c *Converter) Convert(r io.Reader, opts Options) (*model.ScenarioDefinition, error) {
	a, err := archive.Parse(r)
	if err != nil {
		return nil, err
	}
	return c.ConvertArchive(a, opts)
}

// ConvertFile opens path, converts it and closes it on every exit path.
func (c *Converter) ConvertFile(path string, opts Options) (*model.ScenarioDefinition, error) {
	a, err := archive.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.ConvertArchive(a, opts)
}

// ConvertArchive filters and transforms an already parsed archive in a
// single pass. It returns either the full scenario or an error, never a
// partial result.
func (c *Converter) ConvertArchive(a *model.Archive, opts Options) (*model.ScenarioDefinition, error) {
	if a == nil {
		return nil, fmt.Errorf("convert archive: nil archive")
	}

	f := filter.Filter{Rules: opts.Rules}
	asm := NewAssembler(len(a.Log.Entries))
	dropped := make(map[filter.Verdict]int)

	for i, e := range a.Log.Entries {
		if v := f.Check(e); v != filter.Kept {
			dropped[v]++
			continue
		}

		el, err := c.transformer.Transform(asm.Len(), e)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s %s): %w", i, e.Request.Method, e.Request.URL, err)
		}
		asm.Append(el)
	}

	c.logger.Debug("entries dropped",
		logging.Field{Key: "connect", Value: dropped[filter.DroppedConnect]},
		logging.Field{Key: "invalid_url", Value: dropped[filter.DroppedInvalidURL]},
		logging.Field{Key: "rule", Value: dropped[filter.DroppedByRule]})
	c.logger.Info("archive converted",
		logging.Field{Key: "entries", Value: len(a.Log.Entries)},
		logging.Field{Key: "elements", Value: asm.Len()})

	return asm.Definition(), nil
}
