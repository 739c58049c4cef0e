// Package s3 reads startup payloads from S3 and S3-compatible object storage.
package s3
