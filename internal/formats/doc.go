// Package formats maps instrument filenames to the handlers that parse them.
//
// The Registry is an ordered table of (pattern, constructor) bindings walked
// first-match-wins, so overlapping naming conventions resolve deterministically
// and adding a vendor means adding a registry entry, not touching dispatch
// logic. Handlers satisfy the Datapath contract: construction loads the raw
// file, Structure produces the normalized record handed to the serialization
// sink.
package formats
