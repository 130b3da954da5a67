// Package resultstore persists benchmark result files.
//
// Stores are flat namespaces of immutable objects addressed by a slash
// separated name. LocalStore lives here; object storage backends live in
// the s3 and minio subpackages.
package resultstore
