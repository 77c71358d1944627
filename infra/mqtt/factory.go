package mqtt

import (
	"github.com/kilianp07/evload/core/factory"
	"github.com/kilianp07/evload/core/schedule"
)

func init() {
	_ = schedule.RegisterPublisher("mqtt", func(conf map[string]any) (schedule.Publisher, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPublisher(c)
	})
}
