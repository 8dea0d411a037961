// Package launcher runs a one-off container with a host directory
// bind-mounted into it and streams its output, the Go counterpart of
// `docker run --rm -v "$PWD":/app -w /app IMAGE CMD`.
package launcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"container-labs/internal/logging"

	"github.com/cenkalti/backoff/v4"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTarget = "/app"
	pullAttempts  = 3
)

type dockerAPI interface {
	ImagePull(ctx context.Context, ref string, options types.ImagePullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

type Options struct {
	Image string
	Cmd   []string
	// Dir is the host directory mounted at Target; relative paths resolve
	// against the working directory.
	Dir    string
	Target string
	// Publish is "host:container", TCP only.
	Publish string
	Pull    bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// ExitError reports a container that ran but exited non-zero.
type ExitError struct {
	Code int64
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("container exited with status %d", e.Code)
}

type Launcher struct {
	docker dockerAPI
	logger *logrus.Logger
}

func New() (*Launcher, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &Launcher{docker: cli, logger: logging.GetLogger()}, nil
}

func (l *Launcher) Close() error {
	return l.docker.Close()
}

// Run creates, starts and waits for the container, always force-removing it
// afterwards. Output is demultiplexed onto opts.Stdout and opts.Stderr.
func (l *Launcher) Run(ctx context.Context, opts Options) error {
	cfg, hostCfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	if opts.Pull {
		if err := l.pull(ctx, opts.Image); err != nil {
			return err
		}
	}

	name := "lab-" + uuid.NewString()[:8]
	resp, err := l.docker.ContainerCreate(ctx, cfg, hostCfg, nil, nil, name)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", name, err)
	}
	containerID := resp.ID
	log := l.logger.WithFields(logrus.Fields{
		"container":    name,
		"container_id": shortID(containerID),
		"image":        opts.Image,
	})
	log.Info("Container created")

	// Removal must survive cancellation of ctx.
	defer l.remove(context.Background(), containerID)

	if err := l.docker.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}
	log.Info("Container started")

	// Cancelling gctx aborts the log stream when waiting fails.
	g, gctx := errgroup.WithContext(ctx)
	logs, err := l.docker.ContainerLogs(gctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to attach to container logs: %w", err)
	}
	defer logs.Close()

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	var exitCode int64
	g.Go(func() error {
		if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil && gctx.Err() == nil {
			return fmt.Errorf("failed to stream container output: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		waitCh, errCh := l.docker.ContainerWait(gctx, containerID, container.WaitConditionNotRunning)
		select {
		case result := <-waitCh:
			if result.Error != nil {
				return fmt.Errorf("container wait: %s", result.Error.Message)
			}
			exitCode = result.StatusCode
			return nil
		case err := <-errCh:
			return fmt.Errorf("container wait: %w", err)
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.WithField("exit_code", exitCode).Info("Container finished")
	if exitCode != 0 {
		return &ExitError{Code: exitCode}
	}
	return nil
}

func buildConfig(opts Options) (*container.Config, *container.HostConfig, error) {
	if opts.Image == "" {
		return nil, nil, fmt.Errorf("image is required")
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	target := opts.Target
	if target == "" {
		target = DefaultTarget
	}
	if !strings.HasPrefix(target, "/") {
		return nil, nil, fmt.Errorf("mount target %q must be absolute", target)
	}

	cfg := &container.Config{
		Image:      opts.Image,
		Cmd:        opts.Cmd,
		WorkingDir: target,
	}
	hostCfg := &container.HostConfig{
		Binds: []string{abs + ":" + target},
	}

	if opts.Publish != "" {
		parts := strings.Split(opts.Publish, ":")
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("invalid port format %s, expected format: host:container", opts.Publish)
		}
		hostPort, containerPort := parts[0], parts[1]

		port, err := nat.NewPort("tcp", containerPort)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid container port %s: %w", containerPort, err)
		}
		hostCfg.PortBindings = nat.PortMap{
			port: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: hostPort}},
		}
		cfg.ExposedPorts = nat.PortSet{port: struct{}{}}
	}
	return cfg, hostCfg, nil
}

// pull retries transient registry failures with exponential backoff.
func (l *Launcher) pull(ctx context.Context, image string) error {
	log := l.logger.WithField("image", image)
	log.Info("Pulling image")

	attempt := 0
	op := func() error {
		attempt++
		resp, err := l.docker.ImagePull(ctx, image, types.ImagePullOptions{})
		if err != nil {
			log.WithField("attempt", attempt).WithError(err).Warn("Image pull failed")
			return err
		}
		defer resp.Close()
		_, err = io.Copy(io.Discard, resp)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), pullAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	log.Info("Image pulled successfully")
	return nil
}

func (l *Launcher) remove(ctx context.Context, containerID string) {
	err := l.docker.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true, RemoveVolumes: true})
	if err != nil && !client.IsErrNotFound(err) {
		l.logger.WithField("container_id", shortID(containerID)).WithError(err).Warn("Failed to force remove container")
		return
	}
	l.logger.WithField("container_id", shortID(containerID)).Debug("Container removed")
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
