package internal

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
)

// JoinBridgeNetwork connects the container this process runs in to docker's
// default bridge network, so tests running inside a dev container can reach
// the service containers that testcontainers starts on that network.
//
// Outside of a container it does nothing. Failures are logged and ignored:
// the container may already be on the bridge network.
func JoinBridgeNetwork(ctx context.Context) {
	if _, err := os.Stat("/.dockerenv"); err != nil {
		return
	}

	hostname, err := os.Hostname()
	if err != nil {
		return
	}

	if out, err := exec.CommandContext(ctx, "docker", "network", "connect", "bridge", hostname).CombinedOutput(); err != nil {
		slog.Debug("can't join bridge network", "hostname", hostname, "err", err, "output", string(out))
	}
}
