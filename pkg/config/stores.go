package config

import (
	"context"
	"fmt"
	"os"

	"github.com/docrep/docrep/pkg/blob"
	blobbadger "github.com/docrep/docrep/pkg/blob/badger"
	blobfs "github.com/docrep/docrep/pkg/blob/fs"
	blobmemory "github.com/docrep/docrep/pkg/blob/memory"
	blobs3 "github.com/docrep/docrep/pkg/blob/s3"
	"github.com/docrep/docrep/pkg/repository/store"
)

// CreateStore opens the metadata database from configuration.
func CreateStore(cfg *store.Config) (store.Store, error) {
	return store.New(cfg)
}

// CreateBlobStore creates a blob store instance from configuration.
func CreateBlobStore(ctx context.Context, cfg BlobConfig) (blob.Store, error) {
	switch cfg.Type {
	case "memory":
		return blobmemory.New(), nil
	case "filesystem", "":
		return createFSBlobStore(cfg.Filesystem)
	case "badger":
		return createBadgerBlobStore(cfg.Badger)
	case "s3":
		return createS3BlobStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob store type: %q", cfg.Type)
	}
}

// createFSBlobStore creates a filesystem-backed blob store.
func createFSBlobStore(cfg BlobFSConfig) (blob.Store, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("filesystem blob store requires base_path to be set")
	}

	// Build config - fs.New() applies defaults for zero values
	fsCfg := blobfs.Config{
		BasePath: cfg.BasePath,
		DirMode:  os.FileMode(cfg.DirMode),
		FileMode: os.FileMode(cfg.FileMode),
	}

	return blobfs.New(fsCfg)
}

// createBadgerBlobStore creates a BadgerDB-backed blob store.
func createBadgerBlobStore(cfg BlobBadgerConfig) (blob.Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("badger blob store requires path to be set")
	}

	return blobbadger.New(blobbadger.Config{Path: cfg.Path})
}

// createS3BlobStore creates an S3-backed blob store.
func createS3BlobStore(ctx context.Context, cfg BlobS3Config) (blob.Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 blob store requires bucket to be set")
	}

	s3Cfg := blobs3.Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		KeyPrefix:       cfg.KeyPrefix,
		ForcePathStyle:  cfg.ForcePathStyle,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	}

	return blobs3.NewFromConfig(ctx, s3Cfg)
}
