// Package extract recovers a JSON array of records from free-form model
// output. Generated text routinely wraps the array in prose or markdown
// fences, so the package scans for the outermost bracket span instead of
// parsing the whole response.
//
// Extraction never fails loudly: when no span is found, or the span is not a
// well-formed array, the result is empty. Records are returned without any
// field-level validation; callers decide how to treat missing fields.
package extract
