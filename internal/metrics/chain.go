package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/smazurov/trafficnode/internal/frame"
	"github.com/smazurov/trafficnode/internal/shiftreg"
)

type instrumentedChain struct {
	next   shiftreg.Chain
	frames prometheus.Counter
	errors prometheus.Counter
}

// InstrumentChain wraps c so every send is counted under the arm label.
func InstrumentChain(arm string, c shiftreg.Chain) shiftreg.Chain {
	return &instrumentedChain{
		next:   c,
		frames: chainFrames.WithLabelValues(arm),
		errors: chainErrors.WithLabelValues(arm),
	}
}

func (c *instrumentedChain) Send(f frame.Frame) error {
	if err := c.next.Send(f); err != nil {
		c.errors.Inc()
		return err
	}
	c.frames.Inc()
	return nil
}
