// Package factory is a small generic registry used to build pluggable
// components from configuration. A component is named by a type string and
// carries a map of raw settings; the registered builder decodes the settings
// into a typed struct and returns the concrete implementation.
//
// The metrics pipeline is the main consumer: sink builders ("influx",
// "eco", "nop") register themselves and config.Load picks one by name.
//
//	reg := factory.NewRegistry[MetricsSink]()
//	reg.Register("influx", func(conf map[string]any) (MetricsSink, error) {
//	    var c struct {
//	        URL    string `json:"url"`
//	        Bucket string `json:"bucket"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newInfluxSink(c.URL, c.Bucket)
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: raw})
package factory
