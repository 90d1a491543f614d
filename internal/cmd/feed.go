package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/GuillaumeMCK/dualshock3/client"
	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
	"github.com/GuillaumeMCK/dualshock3/internal/server/bridge"
)

// Feed connects to a running bridge and turns interactive lines into button
// taps. It also prints rumble and LED transitions mirrored by the bridge.
type Feed struct {
	Addr        string        `help:"Bridge address as host:port; resolved from the process file when empty" env:"DS3_FEED_ADDR"`
	ProcessFile string        `help:"Discovery file written by the bridge" default:"/data/local/tmp/ds3_bridge/process.txt" env:"DS3_PROCESS_FILE"`
	DialTimeout time.Duration `help:"Connection timeout" default:"5s" env:"DS3_FEED_DIAL_TIMEOUT"`
	TapDelay    time.Duration `help:"How long a button stays pressed" default:"50ms" env:"DS3_FEED_TAP_DELAY"`
}

// Run is called by Kong when the feed command is executed.
func (c *Feed) Run(logger *slog.Logger) error {
	addr := c.Addr
	if addr == "" {
		_, port, err := bridge.ReadProcessFile(c.ProcessFile)
		if err != nil {
			return fmt.Errorf("resolve bridge address: %w", err)
		}
		addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	}

	cl, err := client.Dial(addr, c.DialTimeout)
	if err != nil {
		return err
	}
	defer cl.Close()
	logger.Info("connected to bridge", "addr", addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go c.mirrorOutput(cl, logger)

	report := dualshock3.NewInputReport()
	send := func() error {
		return cl.SendInput(report.Bytes()[:dualshock3.OutputReportSize])
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("buttons: x o c s t u d l r, full names, 'stk' for random sticks, 'quit' to exit")
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		if interactive {
			fmt.Print("> ")
		}
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			logger.Info("interrupted, releasing")
			return nil
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}

		word := strings.ToLower(strings.TrimSpace(line))
		switch word {
		case "":
			continue
		case "quit":
			return nil
		case "shutdown":
			if err := cl.Shutdown(); err != nil {
				return err
			}
			return nil
		case "stk":
			report.SetLeftStick(rand.IntN(256), rand.IntN(256))
			report.SetRightStick(rand.IntN(256), rand.IntN(256))
			if err := send(); err != nil {
				return err
			}
		default:
			btn, ok := buttonByName(word)
			if !ok {
				fmt.Printf("unknown input %q\n", word)
				continue
			}
			report.Set(btn, true)
			if err := send(); err != nil {
				return err
			}
			time.Sleep(c.TapDelay)
			report.Set(btn, false)
			if err := send(); err != nil {
				return err
			}
		}
	}
}

func (c *Feed) mirrorOutput(cl *client.Client, logger *slog.Logger) {
	out := dualshock3.NewOutputReport()
	var lastLed byte
	var lastLeft, lastRight bool
	for {
		frame, err := cl.NextOutput()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logger.Debug("output mirror ended", "error", err)
			}
			return
		}
		if out.Update(frame) != nil {
			continue
		}
		if mask := out.LedMask(); mask != lastLed {
			lastLed = mask
			fmt.Printf("leds: %04b\n", mask)
		}
		if l, r := out.LeftMotorActive(), out.RightMotorActive(); l != lastLeft || r != lastRight {
			lastLeft, lastRight = l, r
			fmt.Printf("rumble: left=%v right=%v\n", l, r)
		}
	}
}

// buttonByName resolves full button names plus the single-letter shorthands.
func buttonByName(name string) (dualshock3.Button, bool) {
	shorthands := map[string]dualshock3.Button{
		"x": dualshock3.ButtonCross,
		"c": dualshock3.ButtonCross,
		"o": dualshock3.ButtonCircle,
		"s": dualshock3.ButtonSquare,
		"t": dualshock3.ButtonTriangle,
		"u": dualshock3.ButtonUp,
		"d": dualshock3.ButtonDown,
		"l": dualshock3.ButtonLeft,
		"r": dualshock3.ButtonRight,
	}
	if b, ok := shorthands[name]; ok {
		return b, true
	}
	for b := dualshock3.ButtonSelect; b <= dualshock3.ButtonPS; b++ {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}
