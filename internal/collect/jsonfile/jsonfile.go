// Package jsonfile implements the "JSON record via filesystem + JSON
// parse" reference collector of §4.7, layering the filesystem
// primitive's record mode with promotion of the record's top-level
// non-record fields.
package jsonfile

import (
	"github.com/scanset/ESP-Agent-SDK/internal/collect/fs"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// Collector reads a JSON file and exposes both the parsed record as a
// whole (field "record") and any top-level scalar fields promoted for
// convenience by contracts that only need shallow fields.
type Collector struct {
	fsPrimitive *fs.Primitive
}

// New returns a jsonfile Collector.
func New() *Collector {
	return &Collector{fsPrimitive: fs.New()}
}

// Collect reads path as JSON, under hints, and returns its parsed
// record plus any top-level scalar fields promoted into the flat
// field namespace.
func (c *Collector) Collect(path string, hints model.BehaviorHints) (model.CollectedData, error) {
	data, err := c.fsPrimitive.Collect(path, fs.ModeRecord, hints)
	if err != nil {
		return model.CollectedData{}, err
	}

	record, ok := data.Fields["record"]
	if ok && record.Kind == model.KindRecord && record.Record != nil && !record.Record.IsSeq {
		for _, f := range record.Record.Map {
			if f.Value.Kind != model.KindRecord {
				data.Fields[f.Name] = f.Value
			}
		}
	}
	return data, nil
}
