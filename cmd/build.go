package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/foomo/keel/log"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/foomo/sitegen/pkg/content"
	"github.com/foomo/sitegen/pkg/fetch"
	"github.com/foomo/sitegen/pkg/generate"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/sink"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewBuildCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "build [url]",
		Short: "Fetch a collection and generate the static site",
		Long: `Fetches the collection index and every item record from the content
source, renders the listing and detail pages and writes the complete page
set plus shared assets to the configured sink. Any fetch or decode failure
aborts the build before anything is written.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You may specify the base URL the content documents are published under")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			l := log.Logger().With(zap.String("run_id", uuid.New().String()))

			raw := sourceURLFlag(v)
			if len(args) == 1 {
				raw = args[0]
			}
			source, err := content.NewSource(raw)
			if err != nil {
				return fmt.Errorf("failed to resolve content source: %w", err)
			}

			out, err := createSink(cmd.Context(), v, l)
			if err != nil {
				return fmt.Errorf("failed to create sink: %w", err)
			}
			defer out.Close()

			if address := metricsAddressFlag(v); address != "" {
				go func() {
					l.Info("serving prometheus metrics", zap.String("address", address))
					if err := http.ListenAndServe(address, metrics.Handler()); err != nil {
						l.Error("metrics listener failed", zap.Error(err))
					}
				}()
			}

			f := fetch.New(l.Named("inst.fetch"),
				source,
				fetch.WithCollection(collectionFlag(v)),
				fetch.WithHTTPClient(
					keelhttp.NewHTTPClient(
						keelhttp.HTTPClientWithTimeout(sourceTimeoutFlag(v)),
						keelhttp.HTTPClientWithTelemetry(),
					),
				),
			)
			g := generate.New(l.Named("inst.generate"),
				f,
				generate.WithTitle(titleFlag(v)),
				generate.WithBasePath(basePathFlag(v)),
				generate.WithConcurrency(concurrencyFlag(v)),
			)

			l.Info("starting build",
				zap.String("source", source.String()),
				zap.String("collection", collectionFlag(v)),
			)
			start := time.Now()
			stats, err := g.Build(cmd.Context(), out)
			if err != nil {
				return err
			}
			l.Info("build complete",
				zap.Int("pages", stats.Pages),
				zap.Int("assets", stats.Assets),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	addSourceURLFlag(flags, v)
	addCollectionFlag(flags, v)
	addTitleFlag(flags, v)
	addBasePathFlag(flags, v)
	addOutDirFlag(flags, v)
	addConcurrencyFlag(flags, v)
	addSourceTimeoutFlag(flags, v)
	addSinkTypeFlag(flags, v)
	addSinkBlobBucketFlag(flags, v)
	addSinkBlobPrefixFlag(flags, v)
	addMetricsAddressFlag(flags, v)

	return cmd
}

// supportedBlobSchemes lists the URL schemes supported by the blob sink
var supportedBlobSchemes = []string{"gs://", "s3://", "azblob://"}

// createSink creates an output sink based on the configuration
func createSink(ctx context.Context, v *viper.Viper, l *zap.Logger) (sink.Sink, error) {
	sinkType := sinkTypeFlag(v)
	blobBucket := sinkBlobBucketFlag(v)
	blobPrefix := sinkBlobPrefixFlag(v)

	// Warn about ignored blob config
	if sinkType != "blob" && (blobBucket != "" || blobPrefix != "") {
		l.Warn("blob sink flags are set but sink-type is not 'blob'; blob config will be ignored",
			zap.String("sink-type", sinkType),
			zap.String("blob-bucket", blobBucket),
			zap.String("blob-prefix", blobPrefix),
		)
	}

	l.Info("creating sink", zap.String("type", sinkType))

	switch sinkType {
	case "blob":
		if blobBucket == "" {
			return nil, fmt.Errorf("blob bucket URL is required when sink-type is 'blob' (supported schemes: gs://, s3://, azblob://)")
		}
		if !isValidBlobScheme(blobBucket) {
			return nil, fmt.Errorf("unsupported blob sink URL scheme in %q; supported schemes: gs://, s3://, azblob://", blobBucket)
		}
		l.Info("using blob sink",
			zap.String("bucket", blobBucket),
			zap.String("prefix", blobPrefix),
		)
		return sink.NewBlobSink(ctx, blobBucket, blobPrefix)
	case "filesystem", "":
		dir := outDirFlag(v)
		l.Info("using filesystem sink", zap.String("dir", dir))
		return sink.NewFilesystemSink(dir)
	default:
		return nil, fmt.Errorf("unknown sink type: %s (supported: filesystem, blob)", sinkType)
	}
}

// isValidBlobScheme checks if the bucket URL has a supported scheme
func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}
