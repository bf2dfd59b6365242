//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package instance decides whether a launch of the editor leads or forwards
// its command line to the process that already does.
package instance

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/timburks/dred/ipc"
	"github.com/timburks/dred/lock"
	"github.com/timburks/dred/logging"
	"github.com/timburks/dred/pipe"
	"github.com/timburks/dred/types"
)

type State int

const (
	Starting State = iota
	BecameLeader
	ForwardedToLeader
	Failed
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case BecameLeader:
		return "leader"
	case ForwardedToLeader:
		return "forwarded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrLeadershipLost reports a lost race for the pipe or lock after which the
// winner could not be reached either.
var ErrLeadershipLost = errors.New("leadership lost")

var dialInterval = 20 * time.Millisecond

type Options struct {
	Transport pipe.Transport
	PipeName  string
	// LockPath is used when the transport is not exclusive.
	LockPath string
	// ConnectTimeout bounds how long a follower waits for a leader that
	// holds the lock but is not listening yet.
	ConnectTimeout time.Duration
	Logger         *zap.Logger
}

// Coordinator owns the leader's pipe and lock for the life of the process.
type Coordinator struct {
	opts   Options
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	server  *pipe.Server
	lock    *lock.Lock
	serving bool
	closed  bool
	active  map[*pipe.Pipe]struct{}
	wg      sync.WaitGroup
}

func New(opts Options) *Coordinator {
	if opts.Transport == nil {
		opts.Transport = pipe.Default("")
	}
	return &Coordinator{
		opts:   opts,
		logger: logging.OrNop(opts.Logger).Named("instance"),
		active: make(map[*pipe.Pipe]struct{}),
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Listening reports whether this process serves the pipe.
func (c *Coordinator) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.server != nil
}

func (c *Coordinator) setState(s State) State {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	return s
}

// TryBecomeLeaderOrForward runs the election once. BecameLeader and Failed
// both mean the caller should run the editor; only BecameLeader with
// Listening true receives requests. ForwardedToLeader means the files were
// handed to the running editor and the caller should exit. The error
// explains a Failed result.
func (c *Coordinator) TryBecomeLeaderOrForward(args Args) (State, error) {
	if s := c.State(); s != Starting {
		return s, fmt.Errorf("coordinator already %s", s)
	}
	if args.NewInstance || args.NoIPC {
		c.logger.Info("running standalone",
			zap.Bool("newinstance", args.NewInstance), zap.Bool("noipc", args.NoIPC))
		return c.setState(BecameLeader), nil
	}
	var err error
	if c.opts.Transport.Exclusive() {
		err = c.electExclusive(args.Files)
	} else {
		err = c.electWithLock(args.Files)
	}
	if err != nil {
		c.logger.Warn("coordination failed, running standalone", zap.Error(err))
		return c.setState(Failed), err
	}
	return c.State(), nil
}

func (c *Coordinator) electExclusive(files []string) error {
	t := c.opts.Transport
	if client, err := pipe.OpenNamedClient(t, c.opts.PipeName, pipe.ModeReadWrite); err == nil {
		return c.forward(client, files, true)
	}
	server, err := pipe.OpenNamedServer(t, c.opts.PipeName, pipe.ModeReadWrite)
	if err == nil {
		c.becomeLeader(server, nil)
		return nil
	}
	if !errors.Is(err, pipe.ErrAlreadyExists) {
		return err
	}
	c.logger.Debug("lost pipe creation race", zap.String("pipe", c.opts.PipeName))
	client, dialErr := pipe.OpenNamedClient(t, c.opts.PipeName, pipe.ModeReadWrite)
	if dialErr != nil {
		return fmt.Errorf("%w: %v", ErrLeadershipLost, dialErr)
	}
	return c.forward(client, files, true)
}

func (c *Coordinator) electWithLock(files []string) error {
	t := c.opts.Transport
	lk, err := lock.TryLock(c.opts.LockPath)
	if errors.Is(err, lock.ErrLocked) {
		client, dialErr := c.dialLeader()
		if dialErr != nil {
			return fmt.Errorf("%w: %v", ErrLeadershipLost, dialErr)
		}
		return c.forward(client, files, true)
	}
	if err != nil {
		return err
	}

	// Holding the lock proves no live leader serves the pipe.
	path, err := t.TranslateName(c.opts.PipeName)
	if err == nil {
		err = t.Cleanup(path)
	}
	if err != nil {
		lk.Close()
		return err
	}
	server, err := pipe.OpenNamedServer(t, c.opts.PipeName, pipe.ModeReadWrite)
	if err != nil {
		lk.Close()
		return err
	}
	c.becomeLeader(server, lk)
	return nil
}

// dialLeader retries until the lock holder starts listening.
func (c *Coordinator) dialLeader() (*pipe.Pipe, error) {
	deadline := time.Now().Add(c.opts.ConnectTimeout)
	for {
		client, err := pipe.OpenNamedClient(c.opts.Transport, c.opts.PipeName, pipe.ModeReadWrite)
		if err == nil {
			return client, nil
		}
		if !time.Now().Before(deadline) {
			return nil, err
		}
		time.Sleep(dialInterval)
	}
}

func (c *Coordinator) becomeLeader(server *pipe.Server, lk *lock.Lock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.server = server
	c.lock = lk
	c.state = BecameLeader
	c.logger.Info("became leader", zap.String("pipe", server.Path()))
}

func (c *Coordinator) forward(client *pipe.Pipe, files []string, activate bool) error {
	if err := send(client, files, activate); err != nil {
		return err
	}
	c.logger.Info("forwarded to leader", zap.Int("files", len(files)))
	c.setState(ForwardedToLeader)
	return nil
}

// send writes one request and closes the connection.
func send(client *pipe.Pipe, files []string, activate bool) error {
	defer client.Close()
	if activate {
		if err := ipc.PostMessage(client, ipc.Activate, nil); err != nil {
			return err
		}
	}
	for _, file := range files {
		path, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		if err := ipc.PostMessage(client, ipc.Open, ipc.OpenPayload(path)); err != nil {
			return err
		}
	}
	return ipc.PostMessage(client, ipc.Terminator, nil)
}

// Send hands files to the running leader without taking part in the
// election.
func (c *Coordinator) Send(files []string, activate bool) error {
	client, err := c.dialLeader()
	if err != nil {
		return fmt.Errorf("no running editor: %w", err)
	}
	return send(client, files, activate)
}

// Serve starts receiving requests for host. Accepted connections are handed
// over a channel to a dispatcher, which services each on its own goroutine;
// the host must therefore be safe for concurrent use. Serve does nothing
// unless this process is listening.
func (c *Coordinator) Serve(host types.Host) {
	c.mu.Lock()
	if c.server == nil || c.serving || c.closed {
		c.mu.Unlock()
		return
	}
	c.serving = true
	server := c.server
	c.mu.Unlock()

	conns := make(chan *pipe.Pipe)
	c.wg.Add(2)
	go c.accept(server, conns)
	go c.dispatch(conns, host)
}

func (c *Coordinator) accept(server *pipe.Server, conns chan<- *pipe.Pipe) {
	defer c.wg.Done()
	defer close(conns)
	for {
		p, err := server.Accept()
		if err != nil {
			if errors.Is(err, pipe.ErrClosed) {
				return
			}
			c.logger.Warn("accept failed", zap.Error(err))
			time.Sleep(dialInterval)
			continue
		}
		if !c.track(p) {
			p.Close()
			return
		}
		conns <- p
	}
}

func (c *Coordinator) dispatch(conns <-chan *pipe.Pipe, host types.Host) {
	defer c.wg.Done()
	for p := range conns {
		c.wg.Add(1)
		go func(p *pipe.Pipe) {
			defer c.wg.Done()
			defer c.untrack(p)
			c.receive(p, host)
		}(p)
	}
}

func (c *Coordinator) track(p *pipe.Pipe) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.active[p] = struct{}{}
	return true
}

func (c *Coordinator) untrack(p *pipe.Pipe) {
	c.mu.Lock()
	delete(c.active, p)
	c.mu.Unlock()
	p.Close()
}

// receive services one connection until Terminator or an error.
func (c *Coordinator) receive(p *pipe.Pipe, host types.Host) {
	for {
		h, payload, err := ipc.ReadMessage(p)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Warn("dropping connection", zap.Error(err))
			}
			return
		}
		switch h.Kind {
		case ipc.Terminator:
			return
		case ipc.Activate:
			host.ActivateRequested()
		case ipc.Open:
			path, err := ipc.ParseOpenPayload(payload)
			if err != nil {
				c.logger.Warn("dropping connection", zap.Error(err))
				return
			}
			c.logger.Debug("open requested", zap.String("path", path))
			host.OpenRequested(path)
		default:
			c.logger.Warn("ignoring message", zap.Stringer("kind", h.Kind))
		}
	}
}

// Close stops serving, waits for open connections to finish, removes the
// pipe and releases the lock.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	server, lk := c.server, c.lock
	c.server, c.lock = nil, nil
	for p := range c.active {
		p.Close()
	}
	c.mu.Unlock()

	var err error
	if server != nil {
		err = server.Close()
	}
	c.wg.Wait()
	if lk != nil {
		if lockErr := lk.Close(); err == nil {
			err = lockErr
		}
	}
	return err
}
