// internal/simclient/client.go
package simclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/edaniels/golog"
)

// maxFrameLine bounds a single wire line. Sensor frames carry a full
// encoded image, base64-expanded, so this must be generous.
const maxFrameLine = 32 << 20

// ErrClosed is returned for requests issued after the connection died.
var ErrClosed = errors.New("simclient: connection closed")

// Config is minimal transport config.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Logger   golog.Logger
}

// Client is a single TCP connection to the simulator server.
// Requests are correlated by sequence ID; sensor frames arrive
// asynchronously and are dispatched to registered listeners.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	logger  golog.Logger

	wmu sync.Mutex // serializes writes; also guards seq
	seq uint64

	mu        sync.Mutex
	pending   map[uint64]chan message
	listeners map[uint32]func(Frame)

	closed  chan struct{}
	readErr error
	once    sync.Once

	mapName string
}

// Dial connects, starts the read loop, and performs the hello handshake.
func Dial(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("simclient: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = golog.NewLogger("simclient")
	}

	conn, err := net.DialTimeout("tcp", cfg.Endpoint, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("simclient: dial %s: %w", cfg.Endpoint, err)
	}

	c := &Client{
		conn:      conn,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
		pending:   make(map[uint64]chan message),
		listeners: make(map[uint32]func(Frame)),
		closed:    make(chan struct{}),
	}

	go c.readLoop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	welcome, err := c.request(ctx, message{Type: MsgHello}, MsgWelcome)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("simclient: handshake: %w", err)
	}
	c.mapName = welcome.MapName

	return c, nil
}

// MapName reports the world map name from the handshake.
func (c *Client) MapName() string { return c.mapName }

// Close tears down the connection and fails all pending requests.
func (c *Client) Close() error {
	c.fail(ErrClosed)
	return c.conn.Close()
}

// ---- operations ----

// Blueprints returns actor templates whose ID matches pattern
// (server-side wildcard match, e.g. "vehicle.*").
func (c *Client) Blueprints(ctx context.Context, pattern string) ([]Blueprint, error) {
	resp, err := c.request(ctx, message{Type: MsgBlueprints, Pattern: pattern}, MsgBlueprintList)
	if err != nil {
		return nil, err
	}
	return resp.Blueprints, nil
}

// SpawnPoints returns the map's recommended vehicle spawn transforms.
func (c *Client) SpawnPoints(ctx context.Context) ([]Transform, error) {
	resp, err := c.request(ctx, message{Type: MsgSpawnPoints}, MsgSpawnPointList)
	if err != nil {
		return nil, err
	}
	return resp.SpawnPoints, nil
}

// SpawnActor instantiates a blueprint in the world and returns its actor ID.
func (c *Client) SpawnActor(ctx context.Context, blueprintID string, attrs map[string]string, tf Transform) (uint32, error) {
	resp, err := c.request(ctx, message{
		Type:        MsgSpawnActor,
		BlueprintID: blueprintID,
		Attributes:  attrs,
		Transform:   &tf,
	}, MsgActorSpawned)
	if err != nil {
		return 0, err
	}
	return resp.ActorID, nil
}

// AttachSensor spawns a sensor blueprint attached to a parent actor.
// The transform is relative to the parent.
func (c *Client) AttachSensor(ctx context.Context, blueprintID string, attrs map[string]string, tf Transform, parent uint32) (uint32, error) {
	resp, err := c.request(ctx, message{
		Type:        MsgSpawnActor,
		BlueprintID: blueprintID,
		Attributes:  attrs,
		Transform:   &tf,
		ParentID:    parent,
	}, MsgActorSpawned)
	if err != nil {
		return 0, err
	}
	return resp.ActorID, nil
}

// SetAutopilot toggles the simulator's traffic-manager control of a vehicle.
func (c *Client) SetAutopilot(ctx context.Context, actor uint32, enabled bool) error {
	_, err := c.request(ctx, message{
		Type:    MsgSetAutopilot,
		ActorID: actor,
		Enabled: &enabled,
	}, MsgAck)
	return err
}

// DestroyActor removes an actor from the world.
func (c *Client) DestroyActor(ctx context.Context, actor uint32) error {
	_, err := c.request(ctx, message{Type: MsgDestroyActor, ActorID: actor}, MsgAck)
	return err
}

// Listen registers fn for frames from the given sensor actor.
// fn is invoked from the client's read loop; it must not block.
func (c *Client) Listen(sensor uint32, fn func(Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[sensor] = fn
}

// Unlisten removes the listener for a sensor. Frames already in flight
// may still be dispatched before removal takes effect.
func (c *Client) Unlisten(sensor uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, sensor)
}

// ---- request/response plumbing ----

// request sends one message and waits for its correlated response.
// Responses are matched by seq; want is the expected msg_type.
func (c *Client) request(ctx context.Context, m message, want string) (message, error) {
	ch := make(chan message, 1)

	c.wmu.Lock()
	c.seq++
	m.Seq = c.seq

	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		c.wmu.Unlock()
		return message{}, c.err()
	default:
	}
	c.pending[m.Seq] = ch
	c.mu.Unlock()

	raw, err := json.Marshal(m)
	if err == nil {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
		_, err = c.conn.Write(append(raw, '\n'))
	}
	seq := m.Seq
	c.wmu.Unlock()

	if err != nil {
		c.unregister(seq)
		return message{}, fmt.Errorf("simclient: send %s: %w", m.Type, err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return message{}, fmt.Errorf("simclient: %s: server error: %s", m.Type, resp.Error)
		}
		if resp.Type != want {
			return message{}, fmt.Errorf("simclient: %s: unexpected response %q, want %q", m.Type, resp.Type, want)
		}
		return resp, nil
	case <-ctx.Done():
		c.unregister(seq)
		return message{}, ctx.Err()
	case <-c.closed:
		return message{}, c.err()
	case <-timer.C:
		c.unregister(seq)
		return message{}, fmt.Errorf("simclient: %s: timed out after %s", m.Type, c.timeout)
	}
}

func (c *Client) unregister(seq uint64) {
	c.mu.Lock()
	delete(c.pending, seq)
	c.mu.Unlock()
}

// readLoop owns the read side of the connection. It routes correlated
// responses to waiting requests and sensor frames to listeners.
func (c *Client) readLoop() {
	sc := bufio.NewScanner(c.conn)
	sc.Buffer(make([]byte, 64*1024), maxFrameLine)

	for sc.Scan() {
		var m message
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			c.logger.Warnw("dropping undecodable message", "error", err)
			continue
		}

		if m.Type == MsgSensorFrame {
			c.dispatch(m)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[m.Seq]
		if ok {
			delete(c.pending, m.Seq)
		}
		c.mu.Unlock()

		if ok {
			ch <- m
		} else {
			c.logger.Debugw("orphan response", "msg_type", m.Type, "seq", m.Seq)
		}
	}

	err := sc.Err()
	if err == nil {
		err = ErrClosed
	}
	c.fail(err)
}

func (c *Client) dispatch(m message) {
	c.mu.Lock()
	fn := c.listeners[m.SensorID]
	c.mu.Unlock()

	if fn == nil {
		return
	}
	fn(Frame{
		SensorID: m.SensorID,
		Number:   m.Frame,
		SimTime:  m.SimTime,
		Data:     m.Image,
	})
}

// fail marks the connection dead exactly once.
func (c *Client) fail(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.readErr = err
		c.mu.Unlock()
		close(c.closed)
	})
}

func (c *Client) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return c.readErr
	}
	return ErrClosed
}
