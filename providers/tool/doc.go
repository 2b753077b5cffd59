// Package tool defines the tool-execution side of the tool-calling loop.
//
// [Executor] is the contract a tool backend implements: resolve a name, run it
// with JSON-encoded input, return JSON-encoded output. Failures carry exactly
// one [ErrorKind] (not found, invalid input, execution failed). Executors never
// retry internally; retry policy belongs to the orchestrator above them.
//
// [Tool] binds a name and description to a strongly-typed Go function and
// derives the input JSON schema via reflection, and [Catalog] collects tools
// into a thread-safe, name-addressed Executor.
package tool
