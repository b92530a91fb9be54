package filter

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/message"
)

// Pipeline is the ordered filter list of one dataset, ready to decode
// chunks. Filters appear in the order they were applied on write, so
// decoding runs the list back to front.
type Pipeline struct {
	filters []Filter
}

// NewPipeline creates a filter pipeline from a FilterPipeline message.
// Optional filters this package does not implement are left out; a
// missing required filter fails here, before any chunk is touched.
func NewPipeline(fp *message.FilterPipeline) (*Pipeline, error) {
	p := &Pipeline{}
	if fp == nil {
		return p, nil
	}

	for _, info := range fp.Filters {
		f, err := New(info)
		if err != nil {
			return nil, fmt.Errorf("creating filter %d: %w", info.ID, err)
		}
		if f == nil {
			continue // optional and unavailable
		}
		p.filters = append(p.filters, f)
	}

	return p, nil
}

// Decode runs the pipeline in reverse over one chunk. Bit i of
// filterMask set means the writer skipped filter i for this chunk, so
// decoding skips it too.
func (p *Pipeline) Decode(input []byte, filterMask uint32) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		if filterMask&(1<<uint(i)) != 0 {
			continue
		}

		out, err := p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %d decode: %w", p.filters[i].ID(), err)
		}
		data = out
	}
	return data, nil
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
