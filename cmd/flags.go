package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func sourceURLFlag(v *viper.Viper) string {
	return v.GetString("source.url")
}

func addSourceURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("source-url", "", "Base URL the content documents are published under")
	_ = v.BindPFlag("source.url", flags.Lookup("source-url"))
	_ = v.BindEnv("source.url", "CONTENT_SOURCE_URL")
}

func collectionFlag(v *viper.Viper) string {
	return v.GetString("collection")
}

func addCollectionFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("collection", "posts", "Name of the content collection to build")
	_ = v.BindPFlag("collection", flags.Lookup("collection"))
	_ = v.BindEnv("collection", "SITEGEN_COLLECTION")
}

func titleFlag(v *viper.Viper) string {
	return v.GetString("title")
}

func addTitleFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("title", "Blog", "Site title rendered on every page")
	_ = v.BindPFlag("title", flags.Lookup("title"))
	_ = v.BindEnv("title", "SITEGEN_TITLE")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "", "Deployment path prefix folded into every generated link")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "SITEGEN_BASE_PATH")
}

func outDirFlag(v *viper.Viper) string {
	return v.GetString("out.dir")
}

func addOutDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("out-dir", "public", "Where to put the generated site")
	_ = v.BindPFlag("out.dir", flags.Lookup("out-dir"))
	_ = v.BindEnv("out.dir", "SITEGEN_OUT_DIR")
}

func concurrencyFlag(v *viper.Viper) int {
	return v.GetInt("concurrency")
}

func addConcurrencyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("concurrency", 8, "Maximum number of concurrent item fetches")
	_ = v.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = v.BindEnv("concurrency", "SITEGEN_CONCURRENCY")
}

func sourceTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("source.timeout")
}

func addSourceTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("source-timeout", 30*time.Second, "Timeout for each content document fetch")
	_ = v.BindPFlag("source.timeout", flags.Lookup("source-timeout"))
	_ = v.BindEnv("source.timeout", "CONTENT_SOURCE_TIMEOUT")
}

func sinkTypeFlag(v *viper.Viper) string {
	return v.GetString("sink.type")
}

func addSinkTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("sink-type", "filesystem", "Output sink type: filesystem or blob")
	_ = v.BindPFlag("sink.type", flags.Lookup("sink-type"))
	_ = v.BindEnv("sink.type", "SITEGEN_SINK_TYPE")
}

func sinkBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("sink.blob.bucket")
}

func addSinkBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("sink-blob-bucket", "", "Bucket URL for the blob sink (gs://, s3://, azblob://)")
	_ = v.BindPFlag("sink.blob.bucket", flags.Lookup("sink-blob-bucket"))
	_ = v.BindEnv("sink.blob.bucket", "SITEGEN_SINK_BLOB_BUCKET")
}

func sinkBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("sink.blob.prefix")
}

func addSinkBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("sink-blob-prefix", "", "Key prefix for the blob sink")
	_ = v.BindPFlag("sink.blob.prefix", flags.Lookup("sink-blob-prefix"))
	_ = v.BindEnv("sink.blob.prefix", "SITEGEN_SINK_BLOB_PREFIX")
}

func metricsAddressFlag(v *viper.Viper) string {
	return v.GetString("metrics.address")
}

func addMetricsAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("metrics-address", "", "If set, serve prometheus metrics on this address for the duration of the build")
	_ = v.BindPFlag("metrics.address", flags.Lookup("metrics-address"))
	_ = v.BindEnv("metrics.address", "SITEGEN_METRICS_ADDRESS")
}
