package metric

import "github.com/prometheus/client_golang/prometheus"

// ProfileCollector reports which validation profile is active. The value is
// read at scrape time so hot swaps show up without extra bookkeeping.
type ProfileCollector struct {
	profile func() string
	desc    *prometheus.Desc
}

// NewProfileCollector creates a collector that asks profile for the current name.
func NewProfileCollector(profile func() string) *ProfileCollector {
	return &ProfileCollector{
		profile: profile,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "validation", "profile_info"),
			"Active validation profile; always 1.",
			[]string{"profile"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ProfileCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *ProfileCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, 1, c.profile())
}
