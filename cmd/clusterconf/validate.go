package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-clusterconf/pkg/audit"
	"github.com/dd0wney/cluso-clusterconf/pkg/corosync"
	"github.com/dd0wney/cluso-clusterconf/pkg/logging"
	"github.com/dd0wney/cluso-clusterconf/pkg/metrics"
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/request"
)

// validateOptions carries the force flags of one validate run
type validateOptions struct {
	ForceOptions      bool
	ForceModel        bool
	ForceUnresolvable bool
}

// sectionResult is the outcome of one validation pass within a run
type sectionResult struct {
	Operation string
	Items     []report.Item
	Duration  time.Duration
}

func handleValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	requestPath := fs.String("request", "", "Path to the cluster-setup request document (YAML)")
	forceOptions := fs.Bool("force-options", false, "Downgrade forceable option errors to warnings")
	forceModel := fs.Bool("force-model", false, "Accept an unknown quorum device model")
	forceUnresolvable := fs.Bool("force-unresolvable", false, "Accept node addresses that do not resolve")
	showAudit := fs.Bool("show-audit", false, "Print the audit trail to stderr when done")

	fs.Parse(args)

	if *requestPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --request is required")
		fs.Usage()
		os.Exit(1)
	}

	logger := logging.DefaultLogger()

	doc, err := request.Load(*requestPath)
	if err != nil {
		logger.Error("loading request failed", logging.Path(*requestPath), logging.Error(err))
		os.Exit(1)
	}
	if err := request.ValidateDocument(doc); err != nil {
		logger.Error("request document rejected", logging.Path(*requestPath), logging.Error(err))
		os.Exit(1)
	}

	opts := validateOptions{
		ForceOptions:      *forceOptions,
		ForceModel:        *forceModel,
		ForceUnresolvable: *forceUnresolvable,
	}
	forced := *forceOptions || *forceModel || *forceUnresolvable
	transport := effectiveTransport(doc)

	timer := logging.StartTimer(logger, "validation finished",
		logging.Operation("validate"),
		logging.Cluster(doc.ClusterName),
		logging.Transport(transport),
		logging.NodeCount(len(doc.Nodes)),
	)

	results := runValidations(context.Background(), nil, doc, opts)

	reg := metrics.DefaultRegistry()
	if opts.ForceUnresolvable {
		reg.RecordForcedRun("create")
	}
	if doc.Qdevice != nil && (opts.ForceModel || opts.ForceOptions) {
		reg.RecordForcedRun("qdevice_add")
	}

	auditLog := audit.NewAuditLogger(64)
	encoder := json.NewEncoder(os.Stdout)
	totalErrors, totalWarnings := 0, 0

	for _, result := range results {
		errorCount := report.CountSeverity(result.Items, report.SeverityError)
		warningCount := report.CountSeverity(result.Items, report.SeverityWarning)
		totalErrors += errorCount
		totalWarnings += warningCount

		reg.RecordValidation(result.Operation, errorCount, warningCount, result.Duration)

		event := audit.NewEvent(audit.Operation(result.Operation), doc.ClusterName, errorCount, warningCount)
		event.Transport = transport
		event.Forced = forced
		for _, code := range report.Codes(result.Items) {
			event.Codes = append(event.Codes, string(code))
		}
		auditLog.Log(event)

		for _, item := range result.Items {
			encoder.Encode(item)
		}
	}

	timer.End(logging.ErrorCount(totalErrors), logging.WarningCount(totalWarnings))

	if *showAudit {
		for _, event := range auditLog.GetEvents(nil) {
			fmt.Fprintln(os.Stderr, event.String())
		}
	}

	if totalErrors > 0 {
		os.Exit(1)
	}
}

// effectiveTransport applies the corosync default when the request leaves
// the transport unset.
func effectiveTransport(doc *request.Document) string {
	if doc.Transport == "" {
		return corosync.TransportKnet
	}
	return doc.Transport
}

// runValidations runs every validation pass the request calls for and
// returns their results in a fixed order: cluster create, link list,
// transport options, totem, quorum, quorum device.
func runValidations(ctx context.Context, resolver corosync.Resolver, doc *request.Document, opts validateOptions) []sectionResult {
	nodes := make([]corosync.Node, len(doc.Nodes))
	for i, node := range doc.Nodes {
		nodes[i] = corosync.Node{Name: node.Name, Addrs: node.Addrs}
	}
	transport := effectiveTransport(doc)

	var results []sectionResult
	run := func(operation string, pass func() []report.Item) {
		start := time.Now()
		items := pass()
		results = append(results, sectionResult{
			Operation: operation,
			Items:     items,
			Duration:  time.Since(start),
		})
	}

	run("create", func() []report.Item {
		return corosync.Create(ctx, resolver, doc.ClusterName, nodes, transport, opts.ForceUnresolvable)
	})

	switch transport {
	case corosync.TransportKnet:
		run("link_list", func() []report.Item {
			return corosync.CreateLinkListKnet(doc.Links, doc.MaxLinkNumber())
		})
		run("transport", func() []report.Item {
			return corosync.CreateTransportKnet(doc.TransportOptions, doc.Compression, doc.Crypto)
		})
	case corosync.TransportUDP, corosync.TransportUDPU:
		run("link_list", func() []report.Item {
			return corosync.CreateLinkListUDP(doc.Links)
		})
		run("transport", func() []report.Item {
			return corosync.CreateTransportUDP(doc.TransportOptions)
		})
	default:
		// Unknown transport is already reported by the create pass; the
		// transport-specific passes have nothing defined to check.
	}

	run("totem", func() []report.Item {
		return corosync.CreateTotem(doc.Totem)
	})
	run("quorum", func() []report.Item {
		return corosync.CreateQuorumOptions(doc.Quorum, doc.Qdevice != nil)
	})

	if doc.Qdevice != nil {
		run("qdevice_add", func() []report.Item {
			return corosync.AddQuorumDevice(
				doc.Qdevice.Model,
				doc.Qdevice.Options,
				doc.Qdevice.Generic,
				doc.Qdevice.Heuristics,
				nodeIDs(len(nodes)),
				opts.ForceModel,
				opts.ForceOptions,
			)
		})
	}

	return results
}

// nodeIDs lists the corosync node ids a new cluster of n nodes will get,
// one-based in node order. They are the valid non-keyword tie_breaker values.
func nodeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	return ids
}
