package gadget

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// FunctionFS ep0 event types.
const (
	eventBind = iota
	eventUnbind
	eventEnable
	eventDisable
	eventSetup
	eventSuspend
	eventResume
)

const ep0EventSize = 12

// HID class requests.
const (
	hidGetReport = 0x01
	hidGetIdle   = 0x02
	hidSetReport = 0x09
	hidSetIdle   = 0x0A

	reqDirIn        = 0x80
	reqTypeMask     = 0x60
	reqTypeClass    = 0x20
	reqRecipMask    = 0x1F
	reqRecipIfc     = 0x01
	reqTypeStandard = 0x00
	reqGetDesc      = 0x06
)

// Identity describes the gadget as staged into ConfigFS.
type Identity struct {
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
	Serial       string
	// MaxPowerMA is the bus power budget in milliamps.
	MaxPowerMA int
}

// FunctionFS stages a ConfigFS gadget with a single ffs function, mounts
// FunctionFS, feeds descriptors through ep0 and runs the ep0 event loop that
// turns class SETUP packets into ReportHandler calls.
type FunctionFS struct {
	cfg        Config
	id         Identity
	reportDesc []byte
	handler    ReportHandler
	logger     *slog.Logger

	mu      sync.Mutex
	bound   bool
	cleanup []func()

	ep0   *os.File
	epIn  *os.File
	epOut *os.File

	configured chan struct{}
	confOnce   sync.Once
	stop       chan struct{}
	wg         sync.WaitGroup
}

func NewFunctionFS(cfg Config, id Identity, reportDesc []byte, handler ReportHandler, logger *slog.Logger) *FunctionFS {
	return &FunctionFS{
		cfg:        cfg,
		id:         id,
		reportDesc: reportDesc,
		handler:    handler,
		logger:     logger,
		configured: make(chan struct{}),
		stop:       make(chan struct{}),
	}
}

func (f *FunctionFS) Bind(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bound {
		return errors.New("gadget already bound")
	}

	ok := false
	defer func() {
		if !ok {
			f.runCleanup()
		}
	}()

	if err := f.stageConfigFS(); err != nil {
		return fmt.Errorf("stage configfs: %w", err)
	}
	if err := f.mountFunctionFS(); err != nil {
		return fmt.Errorf("mount functionfs: %w", err)
	}
	if err := f.openEp0(); err != nil {
		return fmt.Errorf("open ep0: %w", err)
	}

	f.wg.Add(1)
	go f.eventLoop()

	if err := f.openEndpoints(); err != nil {
		return fmt.Errorf("open endpoints: %w", err)
	}
	if err := f.attachUDC(); err != nil {
		return fmt.Errorf("attach udc: %w", err)
	}

	f.bound = true
	ok = true
	return nil
}

func (f *FunctionFS) Unbind() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.bound {
		return nil
	}
	f.bound = false
	close(f.stop)
	f.runCleanup()
	f.wg.Wait()
	return nil
}

func (f *FunctionFS) AwaitConfigured(ctx context.Context) error {
	timeout := f.cfg.ConfiguredTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case <-f.configured:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("gadget not configured by host: %w", ctx.Err())
	}
}

func (f *FunctionFS) WriteIn(p []byte) (int, error) {
	ep := f.epIn
	if ep == nil {
		return 0, os.ErrClosed
	}
	return ep.Write(p)
}

func (f *FunctionFS) ReadOut(p []byte) (int, error) {
	ep := f.epOut
	if ep == nil {
		return 0, os.ErrClosed
	}
	return ep.Read(p)
}

func (f *FunctionFS) runCleanup() {
	for i := len(f.cleanup) - 1; i >= 0; i-- {
		f.cleanup[i]()
	}
	f.cleanup = nil
}

func (f *FunctionFS) gadgetDir() string {
	return filepath.Join(f.cfg.ConfigFSRoot, f.cfg.Name)
}

func (f *FunctionFS) stageConfigFS() error {
	dir := f.gadgetDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = os.Remove(dir) })

	attrs := map[string]string{
		"idVendor":  fmt.Sprintf("0x%04x", f.id.VendorID),
		"idProduct": fmt.Sprintf("0x%04x", f.id.ProductID),
		"bcdUSB":    "0x0200",
		"bcdDevice": "0x0100",
	}
	for name, val := range attrs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(val), 0o644); err != nil {
			return err
		}
	}

	strDir := filepath.Join(dir, "strings", fmt.Sprintf("0x%04x", langEnglishUS))
	if err := os.MkdirAll(strDir, 0o755); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = os.Remove(strDir) })
	for name, val := range map[string]string{
		"manufacturer": f.id.Manufacturer,
		"product":      f.id.Product,
		"serialnumber": f.id.Serial,
	} {
		if err := os.WriteFile(filepath.Join(strDir, name), []byte(val), 0o644); err != nil {
			return err
		}
	}

	confDir := filepath.Join(dir, "configs", "c.1")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = os.Remove(confDir) })
	maxPower := f.id.MaxPowerMA
	if maxPower == 0 {
		maxPower = 500
	}
	if err := os.WriteFile(filepath.Join(confDir, "MaxPower"), []byte(fmt.Sprintf("%d", maxPower)), 0o644); err != nil {
		return err
	}

	funcDir := filepath.Join(dir, "functions", "ffs."+f.cfg.Name)
	if err := os.MkdirAll(funcDir, 0o755); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = os.Remove(funcDir) })

	link := filepath.Join(confDir, "ffs."+f.cfg.Name)
	if err := os.Symlink(funcDir, link); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = os.Remove(link) })
	return nil
}

func (f *FunctionFS) mountFunctionFS() error {
	if err := os.MkdirAll(f.cfg.MountDir, 0o755); err != nil {
		return err
	}
	if err := unix.Mount(f.cfg.Name, f.cfg.MountDir, "functionfs", 0, ""); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = unix.Unmount(f.cfg.MountDir, 0) })
	return nil
}

func (f *FunctionFS) openEp0() error {
	ep0, err := os.OpenFile(filepath.Join(f.cfg.MountDir, "ep0"), os.O_RDWR, 0)
	if err != nil {
		return err
	}
	f.ep0 = ep0
	f.cleanup = append(f.cleanup, func() { _ = ep0.Close() })

	if _, err := ep0.Write(descriptorsBlob(len(f.reportDesc))); err != nil {
		return fmt.Errorf("write descriptors: %w", err)
	}
	if _, err := ep0.Write(stringsBlob(f.id.Product)); err != nil {
		return fmt.Errorf("write strings: %w", err)
	}
	return nil
}

// openEndpoints opens the data endpoints created once the descriptors have
// been accepted. FunctionFS numbers them in declaration order.
func (f *FunctionFS) openEndpoints() error {
	epIn, err := os.OpenFile(filepath.Join(f.cfg.MountDir, "ep1"), os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	f.epIn = epIn
	f.cleanup = append(f.cleanup, func() { _ = epIn.Close() })

	epOut, err := os.OpenFile(filepath.Join(f.cfg.MountDir, "ep2"), os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	f.epOut = epOut
	f.cleanup = append(f.cleanup, func() { _ = epOut.Close() })
	return nil
}

func (f *FunctionFS) attachUDC() error {
	udc := f.cfg.UDC
	if udc == "" {
		entries, err := os.ReadDir("/sys/class/udc")
		if err != nil || len(entries) == 0 {
			return fmt.Errorf("no usb device controller available")
		}
		udc = entries[0].Name()
	}
	udcFile := filepath.Join(f.gadgetDir(), "UDC")
	if err := os.WriteFile(udcFile, []byte(udc), 0o644); err != nil {
		return err
	}
	f.cleanup = append(f.cleanup, func() { _ = os.WriteFile(udcFile, []byte("\n"), 0o644) })
	f.logger.Info("gadget attached", "udc", udc)
	return nil
}

func (f *FunctionFS) eventLoop() {
	defer f.wg.Done()
	buf := make([]byte, 4*ep0EventSize)
	for {
		n, err := f.ep0.Read(buf)
		if err != nil {
			select {
			case <-f.stop:
			default:
				f.logger.Error("ep0 read failed", "error", err)
			}
			return
		}
		for off := 0; off+ep0EventSize <= n; off += ep0EventSize {
			f.handleEvent(buf[off : off+ep0EventSize])
		}
	}
}

func (f *FunctionFS) handleEvent(ev []byte) {
	switch ev[8] {
	case eventEnable:
		f.logger.Info("gadget configured by host")
		f.confOnce.Do(func() { close(f.configured) })
	case eventSetup:
		f.handleSetup(ev[:8])
	case eventDisable, eventSuspend:
		f.logger.Debug("gadget host event", "type", ev[8])
	case eventUnbind:
		f.logger.Info("gadget unbound by host")
	}
}

func (f *FunctionFS) handleSetup(setup []byte) {
	bmRequestType := setup[0]
	bRequest := setup[1]
	wValue := binary.LittleEndian.Uint16(setup[2:4])
	wLength := binary.LittleEndian.Uint16(setup[6:8])

	if bmRequestType&reqTypeMask != reqTypeClass || bmRequestType&reqRecipMask != reqRecipIfc {
		f.stall(bmRequestType&reqDirIn != 0)
		return
	}

	reportType := uint8(wValue >> 8)
	reportID := uint8(wValue & 0xFF)

	if bmRequestType&reqDirIn != 0 {
		switch bRequest {
		case hidGetReport:
			data, err := f.handler.GetReport(reportType, reportID)
			if err != nil {
				f.logger.Warn("get report rejected", "type", reportType, "id", reportID, "error", err)
				f.stall(true)
				return
			}
			if int(wLength) < len(data) {
				data = data[:wLength]
			}
			if _, err := f.ep0.Write(data); err != nil {
				f.logger.Error("ep0 data stage write failed", "error", err)
			}
		case hidGetIdle:
			_, _ = f.ep0.Write([]byte{0})
		default:
			f.stall(true)
		}
		return
	}

	switch bRequest {
	case hidSetReport:
		data := make([]byte, wLength)
		if wLength > 0 {
			if _, err := io.ReadFull(f.ep0, data); err != nil {
				f.logger.Error("ep0 data stage read failed", "error", err)
				return
			}
		}
		if err := f.handler.SetReport(reportType, reportID, data); err != nil {
			f.logger.Warn("set report rejected", "type", reportType, "id", reportID, "error", err)
		}
	case hidSetIdle:
		// Zero-length OUT request: ack the status stage.
		_, _ = f.ep0.Read(nil)
	default:
		f.stall(false)
	}
}

// stall halts the control request by doing I/O in the wrong direction, the
// FunctionFS convention for signalling a protocol stall.
func (f *FunctionFS) stall(in bool) {
	if in {
		_, _ = f.ep0.Read(nil)
	} else {
		_, _ = f.ep0.Write(nil)
	}
}
