// Package minio implements resultstore.Store on MinIO and other
// S3-compatible servers.
package minio
