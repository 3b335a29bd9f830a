// Package qdevice reads the runtime status of a quorum device setup: the
// corosync-qdevice client on a cluster node and the qnetd daemon serving
// it. Commands run through the Runner interface so callers can substitute
// the process execution.
package qdevice

import (
	"context"
	"regexp"
	"strings"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

// Paths and names of the net model tooling.
const (
	Model       = "net"
	ServiceName = "corosync-qnetd"

	QdeviceToolPath = "/usr/sbin/corosync-qdevice-tool"
	QnetdToolPath   = "/usr/bin/corosync-qnetd-tool"

	ServerCertsDir   = "/etc/corosync/qnetd/nssdb"
	ClientCertsDir   = "/etc/corosync/qdevice/net/nssdb"
	ClientCACertName = "qnetd-cacert.crt"
)

// qnetd exits with 3 and a hint on stderr when the daemon is down.
const qnetdNotRunningExit = 3

var clusterHeadingRe = regexp.MustCompile(`^Cluster "([^"]+)":$`)

// Client queries the quorum device tools configured in Config.
type Client struct {
	runner Runner
	config Config
}

// NewClient creates a status client. A nil runner runs the tools through
// os/exec.
func NewClient(runner Runner, config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Client{runner: runner, config: config}, nil
}

// StatusText returns the runtime status of the local qdevice client in
// plain text. verbose asks the tool for more detailed output.
func (c *Client) StatusText(ctx context.Context, verbose bool) (string, error) {
	args := []string{"-s"}
	if verbose {
		args = append(args, "-v")
	}
	stdout, stderr, exitCode, err := c.run(ctx, c.config.QdeviceToolPath, args)
	if err != nil || exitCode != 0 {
		return "", report.NewLibraryError(report.CorosyncQuorumGetStatusError(
			failureReason(stdout, stderr, err),
		))
	}
	return stdout, nil
}

// QnetdStatusText returns the generic runtime status of the qnetd daemon
// in plain text. Returns ErrQnetdNotRunning when the daemon is down.
func (c *Client) QnetdStatusText(ctx context.Context, verbose bool) (string, error) {
	args := []string{"-s"}
	if verbose {
		args = append(args, "-v")
	}
	return c.runQnetdTool(ctx, args)
}

// ClusterStatusText returns the qnetd daemon's view of its connected
// clusters in plain text. A non-empty cluster restricts the output to
// that cluster. Returns ErrQnetdNotRunning when the daemon is down.
func (c *Client) ClusterStatusText(ctx context.Context, cluster string, verbose bool) (string, error) {
	args := []string{"-l"}
	if verbose {
		args = append(args, "-v")
	}
	if cluster != "" {
		args = append(args, "-c", cluster)
	}
	return c.runQnetdTool(ctx, args)
}

// ConnectedClusters parses the cluster names out of a qnetd cluster
// status listing.
func ConnectedClusters(statusText string) []string {
	var clusters []string
	for _, line := range strings.Split(statusText, "\n") {
		if match := clusterHeadingRe.FindStringSubmatch(line); match != nil {
			clusters = append(clusters, match[1])
		}
	}
	return clusters
}

func (c *Client) run(ctx context.Context, name string, args []string) (string, string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.StatusTimeout)
	defer cancel()
	return c.runner.Run(ctx, name, args...)
}

func (c *Client) runQnetdTool(ctx context.Context, args []string) (string, error) {
	stdout, stderr, exitCode, err := c.run(ctx, c.config.QnetdToolPath, args)
	if err == nil && exitCode == qnetdNotRunningExit &&
		strings.Contains(strings.ToLower(stderr), "is qnetd running?") {
		return "", ErrQnetdNotRunning
	}
	if err != nil || exitCode != 0 {
		return "", report.NewLibraryError(report.QdeviceGetStatusError(
			Model, failureReason(stdout, stderr, err),
		))
	}
	return stdout, nil
}

// failureReason merges a failed command's output streams, stderr first,
// skipping empty ones. A spawn error stands in when there is no output.
func failureReason(stdout, stderr string, err error) string {
	reason := joinMultilines(stderr, stdout)
	if reason == "" && err != nil {
		reason = err.Error()
	}
	return reason
}

func joinMultilines(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
