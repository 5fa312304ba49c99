// Package app wires the resolver, planner, executor and interactive view
// together behind the three smolix commands. An App owns its logger and
// metrics registry so several instances can coexist in one process, which
// the tests rely on.
package app
