package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Printer sends raw ESC/POS bytes to a receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	IsConnected(ctx context.Context) bool
	Close() error
}

// Supported printer types
const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeFile    = "file"
	TypeNone    = "none"
)

// usbPrinter writes to a character device such as /dev/usb/lp0.
type usbPrinter struct {
	path string
}

func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
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

func (p *usbPrinter) Close() error { return nil }

// networkPrinter speaks raw TCP, usually port 9100.
type networkPrinter struct {
	address string
	dialer  net.Dialer
}

func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{address: address, dialer: net.Dialer{Timeout: 5 * time.Second}}
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

func (p *networkPrinter) Close() error { return nil }

// filePrinter spools each job to its own .bin file, for counters without hardware
type filePrinter struct {
	dir string
	now func() time.Time
}

func NewFilePrinter(dir string) Printer {
	return &filePrinter{dir: dir, now: time.Now}
}

func (p *filePrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("printer: spool dir %s: %w", p.dir, err)
	}
	name := filepath.Join(p.dir, fmt.Sprintf("job-%d.bin", p.now().UnixNano()))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("printer: spool %s: %w", name, err)
	}
	return nil
}

func (p *filePrinter) IsConnected(context.Context) bool {
	info, err := os.Stat(p.dir)
	return err == nil && info.IsDir()
}

func (p *filePrinter) Close() error { return nil }

// nullPrinter discards everything
type nullPrinter struct{}

func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Close() error                        { return nil }

// NewPrinterFromConfig builds a printer for the configured type.
// target is the device path (usb), host:port (network) or spool directory (file).
func NewPrinterFromConfig(printerType, target string) (Printer, error) {
	switch printerType {
	case TypeUSB:
		if target == "" {
			return nil, fmt.Errorf("printer: device path is required for usb printers")
		}
		return NewUSBPrinter(target), nil
	case TypeNetwork:
		if target == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return NewNetworkPrinter(target), nil
	case TypeFile:
		if target == "" {
			return nil, fmt.Errorf("printer: spool directory is required for file printers")
		}
		return NewFilePrinter(target), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	}
	return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, file or none)", printerType)
}
