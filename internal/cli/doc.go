// Package cli builds the smolix command tree on cobra and turns command line
// arguments plus an optional HCL configuration file into an app.Config.
package cli
