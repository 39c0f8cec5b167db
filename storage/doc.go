// Package storage provides object storage for generated audio with
// pluggable backends.
//
// # Backends
//
//   - storage/local: local filesystem (default, base path "uploads")
//   - storage/s3: Amazon S3 and S3-compatible storage such as MinIO
//
// # Configuration
//
//	storage:
//	  provider: "s3"
//	  s3:
//	    bucket: "lingolink-audio"
//	    region: "us-east-1"
//
// Keys are flat file names. Every backend passes storagetest.Run.
package storage
