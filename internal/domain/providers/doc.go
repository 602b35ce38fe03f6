// Package providers models the configurable LLM backends the advisor can
// talk to and the registry that selects between them.
package providers
