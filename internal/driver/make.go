package driver

import (
	"context"
	"fmt"

	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
)

// MakeFromNetwork builds the processor named in net's associated data,
// wraps it in a driver, and binds net.
func MakeFromNetwork(ctx context.Context, reg *processor.Registry, net *network.Network, opts ...Option) (*Driver, error) {
	name, params, err := net.ProcessorSpec()
	if err != nil {
		return nil, fmt.Errorf("make from network: %w", err)
	}
	proc, err := reg.Make(name, params)
	if err != nil {
		return nil, fmt.Errorf("make from network: %w", err)
	}
	d := New(proc, opts...)
	if err := d.Bind(ctx, net); err != nil {
		return nil, err
	}
	return d, nil
}

// EmptyNetwork returns a network carrying the processor's schema and
// its name and parameters in the reserved associated data keys.
func EmptyNetwork(proc processor.Processor) (*network.Network, error) {
	net := network.New(proc.Properties())
	if err := net.SetProcessorSpec(proc.Name(), proc.Params()); err != nil {
		return nil, fmt.Errorf("empty network: %w", err)
	}
	return net, nil
}
