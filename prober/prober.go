package prober

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/metacubex/dhcping/component/dhcp"
	"github.com/metacubex/dhcping/log"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

// Result is the terminal outcome of a probe run, decided exactly once by
// whichever of reply, deadline or fatal error wins the race.
type Result int

const (
	ResultReply Result = iota
	ResultTimeout
	ResultError
)

func (r Result) ExitCode() int {
	switch r {
	case ResultReply:
		return 0
	case ResultTimeout:
		return 2
	default:
		return 1
	}
}

type Options struct {
	Interval time.Duration
	Tries    int
	MaxWait  time.Duration
	Verbose  bool
}

// Prober drives a single probe session: one frame, one connected socket,
// retransmissions on a fixed interval under one overall deadline.
type Prober struct {
	conn   net.Conn
	packet []byte

	interval time.Duration
	tries    int
	maxWait  time.Duration
	secs     uint16
	verbose  bool
}

func New(conn net.Conn, packet []byte, opts Options) *Prober {
	return &Prober{
		conn:     conn,
		packet:   packet,
		interval: opts.Interval,
		tries:    opts.Tries,
		maxWait:  opts.MaxWait,
		verbose:  opts.Verbose,
	}
}

// Run blocks until the probe reaches a terminal outcome. Retry exhaustion
// is not terminal: the session keeps waiting for a reply or the deadline
// with whatever was already sent. The returned error is non-nil only for
// ResultError; the caller owns the process exit.
func (p *Prober) Run(ctx context.Context) (Result, error) {
	deadline := time.NewTimer(p.maxWait)
	defer deadline.Stop()

	recv := make(chan error, 1)
	go p.receive(recv)

	if err := p.transmit(); err != nil {
		return ResultError, err
	}

	var retryC <-chan time.Time
	var retry *time.Timer
	if p.tries--; p.tries > 0 {
		retry = time.NewTimer(p.interval)
		defer retry.Stop()
		retryC = retry.C
	}

	for {
		select {
		case <-retryC:
			p.secs += uint16(p.interval / time.Second)
			dhcp.SetSecs(p.packet, p.secs)
			if err := p.transmit(); err != nil {
				return ResultError, err
			}
			if p.tries--; p.tries > 0 {
				retry.Reset(p.interval)
			} else {
				retryC = nil
			}
		case err := <-recv:
			if err != nil {
				return ResultError, err
			}
			return ResultReply, nil
		case <-deadline.C:
			if p.verbose {
				log.Warnln("timeout waiting for reply")
			}
			return ResultTimeout, nil
		case <-ctx.Done():
			return ResultError, ctx.Err()
		}
	}
}

// transmit writes the whole fixed-size frame. An interrupted or
// would-block send is retried in place and never consumes a retry slot;
// the runtime parks on the poller until the socket is writable, so the
// retry does not spin.
func (p *Prober) transmit() error {
	for {
		_, err := p.conn.Write(p.packet)
		switch {
		case err == nil:
			log.Debugln("sent %d bytes (secs %d)", len(p.packet), p.secs)
			return nil
		case transient(err):
			continue
		default:
			return fmt.Errorf("transmit: %w", err)
		}
	}
}

// receive reports the first decisive read: nil for a datagram of any
// length (the content is never inspected, a NAK or garbage still proves
// the server is alive), an error for an unrecoverable socket failure.
// Transient conditions leave the read armed.
func (p *Prober) receive(recv chan<- error) {
	buf := make([]byte, dhcpv4.MaxMessageSize)
	for {
		_, err := p.conn.Read(buf)
		if err != nil && transient(err) {
			continue
		}
		if err != nil {
			err = fmt.Errorf("input: %w", err)
		}
		recv <- err
		return
	}
}

func transient(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}
