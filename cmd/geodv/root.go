package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/geodv"
	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/blobstore/minio"
	"github.com/hupe1980/geodv/blobstore/s3"
	"github.com/hupe1980/geodv/codec"
)

// cliContext holds the flag values shared by all commands.
type cliContext struct {
	store   storeFlags
	verbose bool
	json    bool
}

type storeFlags struct {
	dir string

	s3Bucket   string
	s3Prefix   string
	s3Region   string
	s3Endpoint string

	minioEndpoint  string
	minioBucket    string
	minioPrefix    string
	minioAccessKey string
	minioSecretKey string
	minioTLS       bool
}

func newRootCmd() *cobra.Command {
	cctx := &cliContext{}

	root := &cobra.Command{
		Use:   "geodv [command] (flags)",
		Short: "spatial doc-values segments",
		Long: `
Build doc-values segments holding tessellated shapes and encoded points, and
run shape relation and distance queries against them.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&cctx.store.dir, "dir", ".", "local directory holding segment blobs")
	pf.StringVar(&cctx.store.s3Bucket, "s3-bucket", "", "read and write segments in this S3 bucket")
	pf.StringVar(&cctx.store.s3Prefix, "s3-prefix", "", "key prefix inside the S3 bucket")
	pf.StringVar(&cctx.store.s3Region, "s3-region", "", "override the AWS region")
	pf.StringVar(&cctx.store.s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint (path-style addressing)")
	pf.StringVar(&cctx.store.minioEndpoint, "minio-endpoint", "", "read and write segments on this MinIO server")
	pf.StringVar(&cctx.store.minioBucket, "minio-bucket", "", "MinIO bucket")
	pf.StringVar(&cctx.store.minioPrefix, "minio-prefix", "", "key prefix inside the MinIO bucket")
	pf.StringVar(&cctx.store.minioAccessKey, "minio-access-key", "", "MinIO access key")
	pf.StringVar(&cctx.store.minioSecretKey, "minio-secret-key", "", "MinIO secret key")
	pf.BoolVar(&cctx.store.minioTLS, "minio-tls", false, "connect to MinIO over HTTPS")
	pf.BoolVarP(&cctx.verbose, "verbose", "v", false, "log queries to stderr")
	pf.BoolVar(&cctx.json, "json", false, "print results as JSON")

	root.AddCommand(
		newIndexCmd(cctx),
		newQueryCmd(cctx),
		newNearestCmd(cctx),
		newInspectCmd(cctx),
	)
	return root
}

// openStore returns the blob store selected by the flags. MinIO wins over S3,
// S3 over the local directory.
func (c *cliContext) openStore(ctx context.Context) (blobstore.BlobStore, error) {
	f := c.store
	switch {
	case f.minioEndpoint != "":
		if f.minioBucket == "" {
			return nil, fmt.Errorf("--minio-bucket is required with --minio-endpoint")
		}
		opts := []minio.Option{
			minio.WithPrefix(f.minioPrefix),
			minio.WithCredentials(f.minioAccessKey, f.minioSecretKey),
		}
		if f.minioTLS {
			opts = append(opts, minio.WithTLS())
		}
		return minio.New(f.minioEndpoint, f.minioBucket, opts...)
	case f.s3Bucket != "":
		opts := []s3.Option{s3.WithPrefix(f.s3Prefix)}
		if f.s3Region != "" {
			opts = append(opts, s3.WithRegion(f.s3Region))
		}
		if f.s3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(f.s3Endpoint))
		}
		return s3.New(ctx, f.s3Bucket, opts...)
	default:
		return blobstore.NewLocalStore(f.dir), nil
	}
}

func (c *cliContext) newSearcher(stderr io.Writer) *geodv.Searcher {
	logger := geodv.NoopLogger()
	if c.verbose {
		logger = geodv.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return geodv.New(
		geodv.WithLogger(logger),
		geodv.WithCodec(codec.GoJSON{}),
	)
}

// openSearcher loads the named segments from the selected store.
func (c *cliContext) openSearcher(cmd *cobra.Command, names []string) (*geodv.Searcher, error) {
	store, err := c.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	s := c.newSearcher(cmd.ErrOrStderr())
	if err := s.OpenSegments(cmd.Context(), store, names...); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (c *cliContext) printJSON(w io.Writer, v any) error {
	data, err := codec.GoJSON{}.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
