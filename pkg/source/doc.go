// Package source loads and saves reactive.State documents.
//
// A location is one of:
//
//	"-"                    stdin for Load, stdout for Save
//	s3://bucket/key.yaml   an S3 object
//	path/to/state.json     a local file
//
// The encoding is picked from the extension: .json, or .yaml/.yml. Stdin and
// stdout default to JSON.
package source
