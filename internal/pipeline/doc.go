// See errcell.go for the shared cancellation cell (spec.md §4.6), writer.go
// for the compress/append pipeline (spec.md §4.4), reader.go for the
// decompress/scatter pipeline (spec.md §4.5), and copy.go for the shared
// N-dimensional strided rectangle copy both pipelines use.
package pipeline
