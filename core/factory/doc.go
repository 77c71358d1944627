// Package factory provides a small generic registry used to build pluggable
// components (metrics sinks, schedule publishers) from configuration. A
// component is described by a type string and a map of raw settings that the
// registered factory decodes into its own typed struct.
//
//	reg := factory.NewRegistry[schedule.Publisher]()
//	_ = reg.Register("file", func(conf map[string]any) (schedule.Publisher, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newFilePublisher(c.Path), nil
//	})
//	p, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "out.json"}})
package factory
