package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
	"github.com/GuillaumeMCK/dualshock3/gadget"
	"github.com/GuillaumeMCK/dualshock3/internal/log"
	"github.com/GuillaumeMCK/dualshock3/internal/server/bridge"
)

// Serve runs the gadget bridge until a signal arrives or a client sends the
// shutdown opcode.
type Serve struct {
	Bridge bridge.Config `embed:"" prefix:"bridge."`
	Gadget gadget.Config `embed:"" prefix:"gadget."`
}

// Run is called by Kong when the serve command is executed.
func (c *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bridge.EnsureStaged(c.Bridge, logger); err != nil {
		return err
	}

	dev := dualshock3.New(logger)
	g := gadget.NewFunctionFS(c.Gadget, gadget.Identity{
		VendorID:     dualshock3.VendorID,
		ProductID:    dualshock3.ProductID,
		Manufacturer: dualshock3.Manufacturer,
		Product:      dualshock3.Product,
		Serial:       dualshock3.SerialString,
		MaxPowerMA:   500,
	}, dualshock3.ReportDescriptor, dev, logger)

	srv := bridge.New(c.Bridge, dev, g, logger, rawLogger)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("signal received, releasing bridge")
		srv.Release()
	case <-srv.Done():
	}
	<-srv.Done()
	return nil
}
