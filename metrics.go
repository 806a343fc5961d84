package u64set

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// setCollector adapts a Set's live atomics to a prometheus.Collector, the
// way aristanetworks/goarista's cmd/ocprometheus/collector.go adapts gNMI
// samples: a small struct implementing Describe/Collect against state it
// doesn't own, registered by the embedding application rather than
// self-registering against a global registry.
type setCollector struct {
	set *Set

	size      *prometheus.Desc
	slotCount *prometheus.Desc
	bucketLen *prometheus.Desc
}

// Collector returns a prometheus.Collector reporting s's approximate size
// and, per bucket, its occupied-slot count and current slots-array length
// (load-factor visibility for the growth-doubling design of spec.md §4.6).
// Collect only reads atomics Size and Stats already read; it never
// acquires a bucket lock and never mutates the set.
func (s *Set) Collector(namespace, subsystem string) prometheus.Collector {
	return &setCollector{
		set: s,
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "size"),
			"Approximate number of elements in the set.",
			nil, nil,
		),
		slotCount: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "bucket_occupied_slots"),
			"Approximate occupied+reserved slot count for one bucket.",
			[]string{"bucket"}, nil,
		),
		bucketLen: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "bucket_slot_capacity"),
			"Current slots array length for one bucket.",
			[]string{"bucket"}, nil,
		),
	}
}

func (c *setCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.slotCount
	ch <- c.bucketLen
}

func (c *setCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(c.set.Size()))

	for i, bs := range c.set.Stats() {
		label := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(c.slotCount, prometheus.GaugeValue, float64(bs.Size), label)
		ch <- prometheus.MustNewConstMetric(c.bucketLen, prometheus.GaugeValue, float64(bs.SlotCount), label)
	}
}
