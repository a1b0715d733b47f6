// Package bridge talks to the input-hooking daemon. The protocol is one
// newline-terminated JSON request per connection, answered by one
// newline-terminated JSON response, after which the connection is closed.
package bridge

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/keys"
	"github.com/hpungsan/clickr/internal/ll"
	"github.com/hpungsan/clickr/internal/profile"
)

const (
	// SocketName is the daemon's socket file inside the temp directory.
	SocketName = "clickr.sock"
	// PipeName is the daemon's named pipe on Windows.
	PipeName = `\\.\pipe\clickr`

	DefaultTimeout = 5 * time.Second

	// maxResponseSize bounds a single response line.
	maxResponseSize = 4 << 20
)

// Request types understood by the daemon.
const (
	TypeLoadProfile    = "load_profile"
	TypeGetFrequencies = "get_frequencies"
	TypePing           = "ping"
)

// Status values of a control response.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request is the envelope written to the daemon.
type Request struct {
	Type    string      `json:"type"`
	ID      string      `json:"id"`
	Profile *ll.Profile `json:"profile,omitempty"`
}

// Response is the reply to a control command.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Frequencies maps a key identifier to the number of times it was pressed.
type Frequencies map[string]int

// DialFunc opens a stream connection to address.
type DialFunc func(ctx context.Context, address string) (net.Conn, error)

// Options configures a Client. Zero values select the platform defaults.
type Options struct {
	Address string
	Timeout time.Duration
	Dial    DialFunc
	Logger  *slog.Logger
}

// Client sends requests to the daemon. Each request dials its own
// connection, so a Client is safe for concurrent use.
type Client struct {
	address string
	timeout time.Duration
	dial    DialFunc
	logger  *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	c := &Client{
		address: opts.Address,
		timeout: opts.Timeout,
		dial:    opts.Dial,
		logger:  opts.Logger,
	}
	if c.address == "" {
		c.address = DefaultAddress()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.dial == nil {
		c.dial = dial
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Address returns the socket path or pipe name the client dials.
func (c *Client) Address() string {
	return c.address
}

// Do sends req and returns the raw response line. The request gets a fresh
// ID when it has none. The connection is closed on every path, including
// cancellation of ctx and the client timeout.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Type == "" {
		return nil, errors.NewInvalidRequest("request type is required")
	}
	if req.ID == "" {
		id, err := newRequestID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		req.ID = id
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	payload = append(payload, '\n')

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := c.logger.With("request", req.Type, "id", req.ID)
	start := time.Now()

	conn, err := c.dial(ctx, c.address)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, req.Type)
		}
		log.Debug("daemon dial failed", "address", c.address, "error", err)
		return nil, errors.NewDaemonUnavailable(c.address, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(payload); err != nil {
		return nil, c.ioError(ctx, req.Type, err)
	}

	line, err := readLine(conn)
	if err != nil {
		return nil, c.ioError(ctx, req.Type, err)
	}
	if !json.Valid(line) {
		log.Warn("daemon sent malformed response", "bytes", len(line))
		return nil, errors.NewInvalidResponse(stderrors.New("response is not valid JSON"))
	}

	log.Debug("daemon responded", "elapsed", time.Since(start))
	return line, nil
}

// Send issues a control command and checks its status.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	raw, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.NewInvalidResponse(err)
	}
	if resp.Status == StatusError {
		return nil, errors.NewDaemonError(resp.Error)
	}
	return &resp, nil
}

// SendActiveProfile compiles p for a daemon running on target and loads it.
func (c *Client) SendActiveProfile(ctx context.Context, p *profile.Profile, target keys.OS) (*Response, error) {
	compiled, err := p.Compile(target)
	if err != nil {
		return nil, err
	}
	return c.LoadProfile(ctx, compiled)
}

// LoadProfile sends an already compiled profile.
func (c *Client) LoadProfile(ctx context.Context, compiled ll.Profile) (*Response, error) {
	return c.Send(ctx, Request{Type: TypeLoadProfile, Profile: &compiled})
}

// GetFrequencies asks the daemon for its key press counters.
func (c *Client) GetFrequencies(ctx context.Context) (Frequencies, error) {
	raw, err := c.Do(ctx, Request{Type: TypeGetFrequencies})
	if err != nil {
		return nil, err
	}
	var freq Frequencies
	if err := json.Unmarshal(raw, &freq); err != nil {
		var resp Response
		if json.Unmarshal(raw, &resp) == nil && resp.Status == StatusError {
			return nil, errors.NewDaemonError(resp.Error)
		}
		return nil, errors.NewInvalidResponse(err)
	}
	if freq == nil {
		freq = Frequencies{}
	}
	return freq, nil
}

// Ping checks that the daemon is reachable and answering.
func (c *Client) Ping(ctx context.Context) (*Response, error) {
	return c.Send(ctx, Request{Type: TypePing})
}

func readLine(conn net.Conn) ([]byte, error) {
	r := bufio.NewReader(io.LimitReader(conn, maxResponseSize))
	line, err := r.ReadBytes('\n')
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			if len(line) == 0 {
				return nil, stderrors.New("daemon closed the connection without responding")
			}
			return nil, stderrors.New("daemon response was not newline terminated")
		}
		return nil, err
	}
	return line[:len(line)-1], nil
}

func (c *Client) ioError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return contextError(ctx, op)
	}
	if stderrors.Is(err, os.ErrDeadlineExceeded) {
		return errors.NewTimeout(op)
	}
	return errors.NewTransport(err)
}

func contextError(ctx context.Context, op string) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewTimeout(op)
	}
	return errors.NewCancelled(op)
}

func newRequestID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
