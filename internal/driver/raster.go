package driver

import (
	"context"
	"math"
	"strings"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/processor"
)

// Raster is the per-step record produced by RunAndTrack.
//
// Row i describes simulated time Start+i. Column j belongs to node
// Columns[j]; columns follow Order and cover the neurons that were
// tracked when the run began.
type Raster struct {
	Start   float64     `json:"start"`
	Columns []uint32    `json:"columns"`
	Spikes  [][]bool    `json:"spikes"`
	Charges [][]float64 `json:"charges"`

	Order *graph.Order `json:"-"`
}

// Rows renders each step as a string of '0' and '1', one character per column.
func (r *Raster) Rows() []string {
	rows := make([]string, len(r.Spikes))
	for i, row := range r.Spikes {
		var b strings.Builder
		for _, fired := range row {
			if fired {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		rows[i] = b.String()
	}
	return rows
}

// Column renders one tracked neuron's history over the run.
func (r *Raster) Column(id uint32) (string, bool) {
	j := -1
	for i, c := range r.Columns {
		if c == id {
			j = i
			break
		}
	}
	if j < 0 {
		return "", false
	}
	var b strings.Builder
	for _, row := range r.Spikes {
		if row[j] {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String(), true
}

// RunAndTrack runs duration unit steps, one processor run per step, and
// records a spike row and a charge row for every tracked neuron after
// each step.
func (d *Driver) RunAndTrack(ctx context.Context, duration float64) (*Raster, error) {
	if d.net == nil {
		return nil, notBound("run and track")
	}
	if math.IsNaN(duration) || duration < 0 {
		return nil, processor.NewError(processor.ErrCodeNegativeTime, "run duration %v must be non-negative", duration)
	}

	columns := d.Tracked()
	idx := make([]int, len(columns))
	for j, id := range columns {
		idx[j], _ = d.order.Index(id)
	}

	r := &Raster{Start: d.proc.Time(), Columns: columns, Order: d.order}
	steps := int(math.Floor(duration))
	for range steps {
		if err := d.proc.Run(1); err != nil {
			return r, err
		}
		d.metrics.Runs.Inc()
		d.metrics.SimulatedTime.Add(1)

		counts := d.proc.NeuronCounts()
		lastFires := d.proc.NeuronLastFires()
		charges := d.proc.NeuronCharges()
		spikeRow := make([]bool, len(columns))
		chargeRow := make([]float64, len(columns))
		for j, i := range idx {
			switch {
			case len(counts) > i:
				spikeRow[j] = counts[i] > 0
			case len(lastFires) > i:
				spikeRow[j] = lastFires[i] >= 0
			}
			if len(charges) > i {
				chargeRow[j] = charges[i]
			}
		}
		r.Spikes = append(r.Spikes, spikeRow)
		r.Charges = append(r.Charges, chargeRow)
	}

	d.logger.Debug("run and track", "steps", steps, "columns", len(columns), "time", d.proc.Time())
	return r, d.record(ctx, ir.EventRun, ir.RunPayload{Duration: float64(steps), Tracked: true})
}

// FormatRaster renders neuron fire-time vectors as strings of length
// duration with '1' at every fire time, in the order given.
func FormatRaster(vectors [][]float64, duration int) []string {
	rows := make([]string, len(vectors))
	for i, times := range vectors {
		row := []byte(strings.Repeat("0", max(duration, 0)))
		for _, t := range times {
			if k := int(t); t >= 0 && k < len(row) {
				row[k] = '1'
			}
		}
		rows[i] = string(row)
	}
	return rows
}
