// Package plugins links the built-in metrics sinks and schedule publishers
// into the binary. Each imported package registers its factories in init.
package plugins

import (
	"github.com/kilianp07/evload/core/metrics"
	"github.com/kilianp07/evload/core/schedule"

	_ "github.com/kilianp07/evload/infra/kafka"
	_ "github.com/kilianp07/evload/infra/metrics"
	_ "github.com/kilianp07/evload/infra/mqtt"
)

// Available lists the registered sink and publisher type names.
func Available() (sinks, publishers []string) {
	return metrics.SinkTypes(), schedule.PublisherTypes()
}
