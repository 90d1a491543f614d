// Package gadget abstracts the Linux USB gadget plumbing (ConfigFS +
// FunctionFS) behind a small interface so the controller logic and the TCP
// bridge can be exercised without kernel support.
package gadget

import (
	"context"
	"time"
)

// ReportHandler answers HID control-plane requests arriving on ep0.
type ReportHandler interface {
	// GetReport builds the response for a GET_REPORT(reportType, reportID).
	// An error stalls the request so the host sees a failed transfer.
	GetReport(reportType, reportID uint8) ([]byte, error)
	// SetReport applies a SET_REPORT payload. Errors are logged and the
	// request is dropped without a stall; device state stays untouched.
	SetReport(reportType, reportID uint8, data []byte) error
}

// Gadget is the endpoint surface the device function and bridge consume.
type Gadget interface {
	// Bind stages the gadget and attaches it to a USB device controller.
	// On failure everything already acquired is torn down.
	Bind(ctx context.Context) error
	// Unbind detaches and removes the gadget. Idempotent.
	Unbind() error
	// AwaitConfigured blocks until the host has configured the gadget, the
	// context is done, or the configured timeout elapses.
	AwaitConfigured(ctx context.Context) error
	// WriteIn writes one report to the interrupt IN endpoint.
	WriteIn(p []byte) (int, error)
	// ReadOut blocks for the next transfer on the interrupt OUT endpoint.
	ReadOut(p []byte) (int, error)
}

// Config parameterizes the FunctionFS adapter.
type Config struct {
	ConfigFSRoot      string        `help:"ConfigFS usb_gadget root" default:"/sys/kernel/config/usb_gadget" env:"DS3_CONFIGFS_ROOT"`
	Name              string        `help:"Gadget name under the ConfigFS root" default:"ds3" env:"DS3_GADGET_NAME"`
	MountDir          string        `help:"FunctionFS mount point" default:"/dev/ffs-ds3" env:"DS3_FFS_MOUNT"`
	UDC               string        `help:"USB device controller to attach to (first available if empty)" env:"DS3_UDC"`
	ConfiguredTimeout time.Duration `help:"How long to wait for the host to configure the gadget" default:"30s" env:"DS3_CONFIGURED_TIMEOUT"`
}
