package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/lightorchestra/util"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

var ErrBadReply = errors.New("unexpected reply from board")

const readTimeout = 200 * time.Millisecond

// Board talks to the light/buzzer microcontroller over a line protocol:
//
//	F <hz>   start a 50% duty tone at hz
//	OFF      silence the buzzer
//	R        request a reading, answered with "L <value>"
type Board struct {
	port io.ReadWriteCloser
	r    *bufio.Reader
	log  *zap.Logger

	failures atomic.Int64
	report   func(f func())
}

// OpenBoard opens the serial device at the given baud rate.
func OpenBoard(name string, baud int, log *zap.Logger) (*Board, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("could not set read timeout on %s: %w", name, err)
	}
	log.Info("serial port opened", zap.String("device", name), zap.Int("baud", baud))
	return NewBoard(p, log), nil
}

// NewBoard wraps an already open link.
func NewBoard(port io.ReadWriteCloser, log *zap.Logger) *Board {
	return &Board{
		port:   port,
		r:      bufio.NewReader(port),
		log:    log,
		report: debounce.New(time.Second),
	}
}

func (b *Board) send(line string) error {
	_, err := io.WriteString(b.port, line+"\n")
	if err != nil {
		b.failures.Add(1)
		b.report(b.reportFailures)
	}
	return err
}

// reportFailures logs one warning per burst of write errors.
func (b *Board) reportFailures() {
	if n := b.failures.Swap(0); n > 0 {
		b.log.Warn("serial writes failed", zap.Int64("count", n))
	}
}

func (b *Board) SetFrequency(hz int) {
	b.send("F " + strconv.Itoa(hz))
}

func (b *Board) SetDutyOff() {
	b.send("OFF")
}

func (b *Board) ReadLight() (uint16, error) {
	if err := b.send("R"); err != nil {
		return 0, err
	}
	line, err := b.r.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("reading light: %w", err)
	}
	return parseReading(line)
}

func parseReading(line string) (uint16, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "L" {
		return 0, fmt.Errorf("%w: %q", ErrBadReply, strings.TrimSpace(line))
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadReply, strings.TrimSpace(line))
	}
	return uint16(util.Clamp(v, 0, 65535)), nil
}

// Close silences the buzzer and releases the port.
func (b *Board) Close() error {
	b.SetDutyOff()
	b.log.Info("closing serial port")
	return b.port.Close()
}
