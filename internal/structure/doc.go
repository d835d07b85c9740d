// Package structure orchestrates batch structuring of raw cycler files.
//
// The Processor walks an input manifest position-wise: files flagged valid are
// dispatched through the format registry, structured, and serialized to a
// deterministic location under the processing root; everything else is
// recorded as excluded. Failures are isolated per file and surface in the
// output manifest rather than aborting the batch.
package structure
