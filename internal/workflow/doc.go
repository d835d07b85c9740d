// Package workflow forwards batch summaries to the external workflow tracker.
package workflow
