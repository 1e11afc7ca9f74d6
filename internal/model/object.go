package model

import "time"

// BehaviorHints are optional per-object collection behavior overrides.
type BehaviorHints struct {
	Recursive      bool
	MaxDepth       int
	HasMaxDepth    bool
	IncludeHidden  bool
	FollowSymlinks bool
	BinaryMode     bool
	Timeout        time.Duration
	HasTimeout     bool
}

// Object is a uniquely identified set of (field-name, value) pairs plus
// optional behavior hints. Which fields are required/allowed is
// determined by the contract of the consuming CTN type.
type Object struct {
	ID       string
	Fields   map[string]Value
	Behavior BehaviorHints

	// Comment is free-text provenance carried from the compiled policy.
	// It is never interpreted by the engine.
	Comment string
}
