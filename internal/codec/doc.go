// Package codec's BlockCodec is the abstract collaborator spec.md §1 calls
// out as deliberately outside the core's concern: the pipeline only ever
// calls Compress/Decompress through the interface, never a concrete
// algorithm. This package supplies the two concrete codecs the module
// ships out of the box — see codec.go and zstd.go.
package codec
