// Package integrationtests drives the smolix command line end to end against
// descriptor stores written to temporary directories.
package integrationtests
