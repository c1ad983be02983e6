// Package s3 implements blobstore.BlobStore for Amazon S3, plus a
// DynamoDB-backed catalog that tracks the latest published snapshot per
// sieve name with atomic, versioned commits.
package s3
