// Package hcl provides the HCL implementation of derivation.Codec and the
// decoder for the optional HCL configuration file. It is responsible for all
// HCL parsing, HCL-to-model translation, and CTY-to-Go data binding.
//
// An HCL descriptor mirrors the JSON store format:
//
//	name    = "hello-2.12.1"
//	builder = "/bin/bash"
//	args    = ["-e", "builder.sh"]
//	system  = "x86_64-linux"
//	env = {
//	  out = "/store/hello"
//	}
//	input_srcs = ["/store/default-builder.sh"]
//
//	input "bash.drv.hcl" {
//	  outputs = ["out"]
//	}
//
//	output "out" {
//	  path = "/store/hello"
//	}
package hcl
