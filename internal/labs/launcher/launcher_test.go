package launcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"container-labs/internal/logging"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocker struct {
	pullErrs  []error
	pulls     int
	config    *container.Config
	host      *container.HostConfig
	name      string
	started   bool
	removed   []string
	startErr  error
	exitCode  int64
	stdout    string
	stderr    string
	waitErr   error
	closeCall bool
}

func (f *fakeDocker) ImagePull(_ context.Context, _ string, _ types.ImagePullOptions) (io.ReadCloser, error) {
	f.pulls++
	if len(f.pullErrs) > 0 {
		err := f.pullErrs[0]
		f.pullErrs = f.pullErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return io.NopCloser(strings.NewReader(`{"status":"done"}`)), nil
}

func (f *fakeDocker) ContainerCreate(_ context.Context, cfg *container.Config, host *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, name string) (container.CreateResponse, error) {
	f.config, f.host, f.name = cfg, host, name
	return container.CreateResponse{ID: "0123456789abcdef0123"}, nil
}

func (f *fakeDocker) ContainerStart(context.Context, string, container.StartOptions) error {
	f.started = true
	return f.startErr
}

func (f *fakeDocker) ContainerLogs(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
	var buf bytes.Buffer
	if f.stdout != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(f.stdout))
	}
	if f.stderr != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(f.stderr))
	}
	return io.NopCloser(&buf), nil
}

func (f *fakeDocker) ContainerWait(context.Context, string, container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	waitCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)
	if f.waitErr != nil {
		errCh <- f.waitErr
	} else {
		waitCh <- container.WaitResponse{StatusCode: f.exitCode}
	}
	return waitCh, errCh
}

func (f *fakeDocker) ContainerRemove(_ context.Context, id string, opts container.RemoveOptions) error {
	if opts.Force {
		f.removed = append(f.removed, id)
	}
	return nil
}

func (f *fakeDocker) Close() error {
	f.closeCall = true
	return nil
}

func newTestLauncher(f *fakeDocker) *Launcher {
	return &Launcher{docker: f, logger: logging.GetLogger()}
}

func TestRun_WiresMountAndPort(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDocker{stdout: "hello\n", stderr: "warn\n"}

	var stdout, stderr bytes.Buffer
	err := newTestLauncher(f).Run(context.Background(), Options{
		Image:   "python:3.12-slim",
		Cmd:     []string{"python", "app.py"},
		Dir:     dir,
		Publish: "8080:80",
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	require.NoError(t, err)

	require.NotNil(t, f.config)
	assert.Equal(t, "python:3.12-slim", f.config.Image)
	assert.Equal(t, []string{"python", "app.py"}, []string(f.config.Cmd))
	assert.Equal(t, "/app", f.config.WorkingDir)
	assert.Equal(t, []string{dir + ":/app"}, f.host.Binds)
	assert.True(t, strings.HasPrefix(f.name, "lab-"))

	port := nat.Port("80/tcp")
	assert.Contains(t, f.config.ExposedPorts, port)
	assert.Equal(t, []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: "8080"}}, f.host.PortBindings[port])

	assert.True(t, f.started)
	assert.Equal(t, []string{"0123456789abcdef0123"}, f.removed)
	assert.Equal(t, "hello\n", stdout.String())
	assert.Equal(t, "warn\n", stderr.String())
	assert.Zero(t, f.pulls)
}

func TestRun_NonZeroExit(t *testing.T) {
	f := &fakeDocker{exitCode: 3}
	err := newTestLauncher(f).Run(context.Background(), Options{Image: "alpine", Dir: t.TempDir()})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, int64(3), exitErr.Code)
	assert.Len(t, f.removed, 1)
}

func TestRun_StartFailureStillRemoves(t *testing.T) {
	f := &fakeDocker{startErr: errors.New("no such image")}
	err := newTestLauncher(f).Run(context.Background(), Options{Image: "alpine", Dir: t.TempDir()})
	assert.Error(t, err)
	assert.Len(t, f.removed, 1)
}

func TestRun_WaitError(t *testing.T) {
	f := &fakeDocker{waitErr: errors.New("daemon gone")}
	err := newTestLauncher(f).Run(context.Background(), Options{Image: "alpine", Dir: t.TempDir()})
	assert.ErrorContains(t, err, "daemon gone")
	assert.Len(t, f.removed, 1)
}

func TestRun_PullRetries(t *testing.T) {
	f := &fakeDocker{pullErrs: []error{errors.New("timeout"), nil}}
	err := newTestLauncher(f).Run(context.Background(), Options{Image: "alpine", Dir: t.TempDir(), Pull: true})
	require.NoError(t, err)
	assert.Equal(t, 2, f.pulls)
}

func TestBuildConfig_Validation(t *testing.T) {
	_, _, err := buildConfig(Options{})
	assert.Error(t, err)

	_, _, err = buildConfig(Options{Image: "alpine", Publish: "8080"})
	assert.Error(t, err)

	_, _, err = buildConfig(Options{Image: "alpine", Publish: "8080:http-alt"})
	assert.Error(t, err)

	_, _, err = buildConfig(Options{Image: "alpine", Target: "app"})
	assert.Error(t, err)

	cfg, host, err := buildConfig(Options{Image: "alpine", Dir: "relative", Target: "/work"})
	require.NoError(t, err)
	assert.Equal(t, "/work", cfg.WorkingDir)
	abs, _ := filepath.Abs("relative")
	assert.Equal(t, []string{abs + ":/work"}, host.Binds)
	assert.Nil(t, host.PortBindings)
}

func TestClose(t *testing.T) {
	f := &fakeDocker{}
	require.NoError(t, newTestLauncher(f).Close())
	assert.True(t, f.closeCall)
}
