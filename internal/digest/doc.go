// Package digest implements the page digest pipeline core: locator
// normalization, the outcome types produced by each stage, the decision
// engine that selects an output strategy, and the orchestrator that
// sequences fetch, extraction, caching, and answering.
package digest
