package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends raw ESC/POS bytes to a thermal printer
type Printer interface {
	Print(ctx context.Context, data []byte) error
	IsConnected(ctx context.Context) bool
	Kind() string
}

// Printer kinds accepted by New
const (
	KindUSB     = "usb"
	KindNetwork = "network"
	KindNone    = "none"
)

// usbPrinter writes to a device file such as /dev/usb/lp0. The file is opened per job.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(_ context.Context, data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() string { return KindUSB }

// networkPrinter dials a raw TCP port, usually 9100
type networkPrinter struct {
	address string
	dialer  net.Dialer
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() string { return KindNetwork }

// nullPrinter discards jobs when no hardware is configured
type nullPrinter struct{}

func (nullPrinter) Print(context.Context, []byte) error { return nil }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Kind() string                        { return KindNone }

// New builds a Printer for kind. address is a device path for usb and host:port for network.
func New(kind, address string) (Printer, error) {
	switch kind {
	case KindUSB:
		if address == "" {
			return nil, fmt.Errorf("printer: device path is required for usb printers")
		}
		return &usbPrinter{path: address}, nil
	case KindNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return &networkPrinter{address: address, dialer: net.Dialer{Timeout: 5 * time.Second}}, nil
	case KindNone, "":
		return nullPrinter{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown type %q (use usb, network or none)", kind)
	}
}
