package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	config "e2eharness/configs"
	"e2eharness/pkg/logger"
	"e2eharness/pkg/metrics"
)

// Listener is a process bound to one of the tracked ports.
type Listener struct {
	Port int
	PID  int32
}

// PortReaper clears tracked service ports before a job runs. Occupants of
// the redis range get a graceful SHUTDOWN first; everything else is
// terminated, then killed. Best-effort per port: one stubborn process must
// not stop the remaining ports from being cleared.
type PortReaper struct {
	cfg *config.Config
	log *zap.Logger

	// Overridable for tests.
	listeners     func(ctx context.Context) ([]Listener, error)
	shutdownRedis func(ctx context.Context, addr string) error
	terminate     func(ctx context.Context, pid int32) error
}

func NewPortReaper(cfg *config.Config) *PortReaper {
	return &PortReaper{
		cfg:           cfg,
		log:           logger.WithFields(zap.String("component", "port-reaper")),
		listeners:     listeningSockets,
		shutdownRedis: redisShutdown,
		terminate:     terminateProcess,
	}
}

// Reap clears every tracked port. Running against a clean host is a no-op.
func (r *PortReaper) Reap(ctx context.Context) {
	bound, err := r.listeners(ctx)
	if err != nil {
		r.log.Warn("failed to enumerate sockets", zap.Error(err))
		metrics.CleanupWarnings.WithLabelValues("ports").Inc()
		return
	}

	byPort := make(map[int]Listener, len(bound))
	for _, l := range bound {
		byPort[l.Port] = l
	}

	for _, port := range r.cfg.TrackedPorts() {
		l, ok := byPort[port]
		if !ok {
			continue
		}
		if err := r.reapOne(ctx, l); err != nil {
			r.log.Warn("failed to clear port",
				zap.Int("port", l.Port),
				zap.Int32("pid", l.PID),
				zap.Error(err))
			metrics.CleanupWarnings.WithLabelValues("ports").Inc()
			continue
		}
		r.log.Debug("cleared port", zap.Int("port", l.Port), zap.Int32("pid", l.PID))
		metrics.PortsReaped.Inc()
	}
}

func (r *PortReaper) reapOne(ctx context.Context, l Listener) error {
	if r.cfg.IsRedisPort(l.Port) {
		addr := fmt.Sprintf("%s:%d", r.cfg.RedisHost, l.Port)
		if err := r.shutdownRedis(ctx, addr); err == nil {
			return nil
		}
		// Whatever is bound there did not honor SHUTDOWN. Fall through.
	}
	return r.terminate(ctx, l.PID)
}

func listeningSockets(ctx context.Context) ([]Listener, error) {
	conns, err := gnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, err
	}
	var out []Listener
	for _, c := range conns {
		if c.Status != "LISTEN" || c.Pid == 0 {
			continue
		}
		out = append(out, Listener{Port: int(c.Laddr.Port), PID: c.Pid})
	}
	return out, nil
}

// redisShutdown asks the server to exit without persisting. Redis closes the
// connection mid-command on success, so a response error alone does not mean
// the shutdown failed; the caller re-checks the port either way on the next
// reset and the signal fallback covers impostors.
func redisShutdown(ctx context.Context, addr string) error {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
		// SHUTDOWN drops the connection; retrying it would only stall.
		MaxRetries: -1,
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("not a reachable redis server: %w", err)
	}
	_ = client.ShutdownNoSave(ctx).Err()
	return nil
}

func terminateProcess(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		// Already gone.
		return nil
	}
	if err := p.TerminateWithContext(ctx); err == nil {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			running, _ := p.IsRunningWithContext(ctx)
			if !running {
				return nil
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
	return p.KillWithContext(ctx)
}
