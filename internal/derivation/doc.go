// Package derivation defines the on-disk descriptor of a single derivation:
// a named unit of build work with declared inputs, a builder command and
// declared outputs.
//
// Descriptors are decoded from files by a Codec. JSON and YAML codecs live
// here; the HCL codec lives in internal/hcl so that this package stays free
// of format-specific dependencies beyond the two structured-data decoders.
//
// A decoded Derivation is treated as immutable. The graph stores the pointer
// returned by the codec and every downstream consumer reads through it.
package derivation
