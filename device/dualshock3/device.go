package dualshock3

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GuillaumeMCK/dualshock3/gadget"
)

const SamplerInterval = 10 * time.Millisecond

// DualShock3 is the emulated controller function. It owns the three report
// buffers; everything else reaches them through the setter and snapshot
// methods below. The samplers and the control-plane dispatch run on separate
// goroutines, so the buffers sit behind a mutex held only for O(48) copies.
type DualShock3 struct {
	mu       sync.Mutex
	input    *InputReport
	output   *OutputReport
	features *Features

	logger *slog.Logger

	// clientConnected gates the input sampler alongside the 0xF4 streaming
	// state: with no remote client there is nothing worth reporting.
	clientConnected atomic.Bool

	attachMu sync.Mutex
	stop     chan struct{}
	wg       sync.WaitGroup
	released bool
}

func New(logger *slog.Logger) *DualShock3 {
	return &DualShock3{
		input:    NewInputReport(),
		output:   NewOutputReport(),
		features: NewFeatures(),
		logger:   logger,
	}
}

// GetReport answers a GET_REPORT control request.
func (d *DualShock3) GetReport(reportType, reportID uint8) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case reportType == ReportTypeFeature:
		return d.features.Get(reportID)
	case reportType == ReportTypeInput && reportID == ReportIDInput:
		return d.input.Bytes(), nil
	default:
		return nil, &UnsupportedReportError{Type: reportType, ID: reportID}
	}
}

// SetReport applies a SET_REPORT control request.
func (d *DualShock3) SetReport(reportType, reportID uint8, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case reportType == ReportTypeFeature:
		return d.features.Set(reportID, data)
	case reportType == ReportTypeOutput && reportID == ReportIDOutput:
		return d.output.Update(data)
	default:
		return &UnsupportedReportError{Type: reportType, ID: reportID}
	}
}

// ApplyInput overwrites the input report with a 48-byte wire frame from the
// remote client.
func (d *DualShock3) ApplyInput(frame []byte) {
	d.mu.Lock()
	d.input.Apply(frame)
	d.mu.Unlock()
}

// UpdateInput mutates the input report under the buffer lock.
func (d *DualShock3) UpdateInput(fn func(*InputReport)) {
	d.mu.Lock()
	fn(d.input)
	d.mu.Unlock()
}

// OutputBytes snapshots the current 48-byte output report.
func (d *DualShock3) OutputBytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output.Bytes()
}

// InputBytes snapshots the current 49-byte input report.
func (d *DualShock3) InputBytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input.Bytes()
}

func (d *DualShock3) InputStreamingEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.features.InputStreamingEnabled()
}

// SetClientConnected tells the sampler whether a bridge session is open.
func (d *DualShock3) SetClientConnected(connected bool) {
	d.clientConnected.Store(connected)
}

// Attach starts the 10 ms input sampler against the gadget's IN endpoint and
// the OUT endpoint pump. Release stops both.
func (d *DualShock3) Attach(g gadget.Gadget) {
	d.attachMu.Lock()
	defer d.attachMu.Unlock()
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.released = false
	d.wg.Add(1)
	go d.sampleInput(g)
	// The pump is not tracked by the wait group: it blocks inside ReadOut
	// until the endpoint closes, which happens when the gadget unbinds.
	go d.pumpOutput(g)
}

// Release cancels the samplers. Idempotent.
func (d *DualShock3) Release() {
	d.attachMu.Lock()
	if d.stop == nil || d.released {
		d.attachMu.Unlock()
		return
	}
	d.released = true
	close(d.stop)
	d.attachMu.Unlock()
	d.wg.Wait()
}

func (d *DualShock3) sampleInput(g gadget.Gadget) {
	defer d.wg.Done()
	ticker := time.NewTicker(SamplerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
		}
		if !d.clientConnected.Load() || !d.InputStreamingEnabled() {
			continue
		}
		if _, err := g.WriteIn(d.InputBytes()); err != nil {
			if isFatalEndpointError(err) {
				d.logger.Error("input endpoint closed", "error", err)
				go d.Release()
				return
			}
			// Transient failure: drop this sample, try the next tick.
			d.logger.Debug("input sample dropped", "error", err)
		}
	}
}

func (d *DualShock3) pumpOutput(g gadget.Gadget) {
	buf := make([]byte, 2*OutputReportSize)
	for {
		select {
		case <-d.stop:
			return
		default:
		}
		n, err := g.ReadOut(buf)
		if err != nil {
			select {
			case <-d.stop:
			default:
				if isFatalEndpointError(err) {
					d.logger.Info("output endpoint closed", "error", err)
				} else {
					d.logger.Error("output endpoint read failed", "error", err)
				}
				go d.Release()
			}
			return
		}
		frame := buf[:n]
		if len(frame) == OutputReportSize+1 && frame[0] == ReportIDOutput {
			d.mu.Lock()
			err = d.output.Update(frame[1:])
			d.mu.Unlock()
			if err != nil {
				d.logger.Warn("output report rejected", "error", err)
			}
			continue
		}
		d.logger.Warn("unexpected OUT transfer dropped", "len", len(frame))
	}
}

func isFatalEndpointError(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}
