package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Metric names exposed by a Collector.
const (
	ReloadsName    = "watchconf_reloads_total"
	ErrorsName     = "watchconf_reload_errors_total"
	SkipsName      = "watchconf_polls_skipped_total"
	LastReloadName = "watchconf_last_reload_timestamp_seconds"
)

// Collector counts reload-cycle outcomes for one watcher and renders them
// in the Prometheus text exposition format on demand. All methods are safe
// for concurrent use.
type Collector struct {
	mu         sync.Mutex
	reloads    float64
	errors     float64
	skips      float64
	lastReload time.Time
	now        func() time.Time // injectable for deterministic tests
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{now: time.Now}
}

// Reload records one successful reload cycle.
func (c *Collector) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloads++
	c.lastReload = c.now()
}

// Error records one failed reload cycle.
func (c *Collector) Error() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors++
}

// Skip records one poll cycle that found the file fingerprint unchanged.
func (c *Collector) Skip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skips++
}

// Families builds the metric families for the current counter values.
// The last-reload gauge reads 0 until the first successful reload.
func (c *Collector) Families() []*dto.MetricFamily {
	c.mu.Lock()
	defer c.mu.Unlock()

	var last float64
	if !c.lastReload.IsZero() {
		last = float64(c.lastReload.UnixNano()) / 1e9
	}
	return []*dto.MetricFamily{
		counter(ReloadsName, "Total successful reload cycles.", c.reloads),
		counter(ErrorsName, "Total failed reload cycles.", c.errors),
		counter(SkipsName, "Total poll cycles skipped because the file was unchanged.", c.skips),
		gauge(LastReloadName, "Unix time of the last successful reload.", last),
	}
}

// Encode writes the current counter values to w in the Prometheus text
// exposition format.
func (c *Collector) Encode(w io.Writer) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range c.Families() {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(v)}}},
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}
