package model

// CollectionMethod records how a piece of collected data was obtained,
// for evidence provenance (§4.8). Exactly the fields relevant to Type
// are populated.
type CollectionMethod struct {
	Type        string
	Description string
	Target      string
	Command     []string
	Inputs      map[string]string
}

// CollectedData is the output of running one Collector against one
// resolved Object: the field values gathered, plus provenance of how
// they were gathered.
type CollectedData struct {
	ObjectID    string
	CTNType     string
	CollectorID string
	Fields      map[string]Value
	Method      CollectionMethod

	// Missing lists declared fields the collector could not populate
	// (object absent, field not applicable). A nil/empty Missing with
	// a non-nil Fields means the object exists and was fully collected.
	Missing []string

	// Exists is false when the collector determined the underlying
	// object does not exist at all (as opposed to existing but lacking
	// some fields).
	Exists bool
}
