// Package s3 implements resultstore.Store on Amazon S3.
//
// Objects are written with the multipart upload manager, which sends a
// single PutObject for result files below the part size.
package s3
