package filter

import (
	"fmt"
)

// Pipeline represents an ordered list of filters.
type Pipeline struct {
	filters []Filter
	infos   []Info
}

// NewPipeline creates a pipeline from filter descriptions.
func NewPipeline(infos []Info) (*Pipeline, error) {
	p := &Pipeline{
		filters: make([]Filter, 0, len(infos)),
		infos:   append([]Info(nil), infos...),
	}

	for _, info := range infos {
		f, err := New(info)
		if err != nil {
			return nil, fmt.Errorf("creating filter %d: %w", info.ID, err)
		}
		p.filters = append(p.filters, f)
	}

	return p, nil
}

// Encode applies the filters in order.
func (p *Pipeline) Encode(input []byte) ([]byte, error) {
	data := input
	for _, f := range p.filters {
		var err error
		data, err = f.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %d encode: %w", f.ID(), err)
		}
	}
	return data, nil
}

// Decode applies the filters in reverse order (last filter first).
func (p *Pipeline) Decode(input []byte) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %d decode: %w", p.filters[i].ID(), err)
		}
	}
	return data, nil
}

// Infos returns the descriptions the pipeline was built from.
func (p *Pipeline) Infos() []Info {
	return append([]Info(nil), p.infos...)
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
