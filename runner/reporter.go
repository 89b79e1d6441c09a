package runner

import (
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

// zapReporter forwards tally metrics to the structured log on each flush
// interval. The sweep has no metrics backend to push to; the log is its
// operational surface.
type zapReporter struct {
	logger *zap.Logger
}

func newZapReporter(logger *zap.Logger) tally.StatsReporter {
	return &zapReporter{logger: logger}
}

func (r *zapReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.logger.Info("Counter", zap.String("name", name), zap.Int64("value", value))
}

func (r *zapReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.logger.Info("Gauge", zap.String("name", name), zap.Float64("value", value))
}

func (r *zapReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.logger.Info("Timer", zap.String("name", name), zap.Duration("interval", interval))
}

func (r *zapReporter) ReportHistogramValueSamples(name string, tags map[string]string, buckets tally.Buckets, bucketLowerBound, bucketUpperBound float64, samples int64) {
	r.logger.Info("Histogram", zap.String("name", name),
		zap.Float64("lower", bucketLowerBound), zap.Float64("upper", bucketUpperBound),
		zap.Int64("samples", samples))
}

func (r *zapReporter) ReportHistogramDurationSamples(name string, tags map[string]string, buckets tally.Buckets, bucketLowerBound, bucketUpperBound time.Duration, samples int64) {
	r.logger.Info("Histogram", zap.String("name", name),
		zap.Duration("lower", bucketLowerBound), zap.Duration("upper", bucketUpperBound),
		zap.Int64("samples", samples))
}

func (r *zapReporter) Capabilities() tally.Capabilities {
	return capabilities{}
}

func (r *zapReporter) Flush() {}

type capabilities struct{}

func (capabilities) Reporting() bool { return true }
func (capabilities) Tagging() bool   { return false }
