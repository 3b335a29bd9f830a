package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-clusterconf/pkg/audit"
	"github.com/dd0wney/cluso-clusterconf/pkg/cib"
	"github.com/dd0wney/cluso-clusterconf/pkg/cib/constraint"
	"github.com/dd0wney/cluso-clusterconf/pkg/cib/resourceset"
	"github.com/dd0wney/cluso-clusterconf/pkg/corosync"
	"github.com/dd0wney/cluso-clusterconf/pkg/metrics"
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/request"
)

const clusterRequestYAML = `
cluster_name: e2e-cluster
transport: knet
nodes:
  - name: node1
    addrs: ["10.0.0.1", "192.168.10.1"]
  - name: node2
    addrs: ["10.0.0.2", "192.168.10.2"]
  - name: node3
    addrs: ["10.0.0.3", "192.168.10.3"]
links:
  - linknumber: "0"
    link_priority: "10"
  - linknumber: "1"
    transport: "sctp"
crypto:
  cipher: aes256
  hash: sha256
quorum:
  wait_for_all: "1"
qdevice:
  model: net
  options:
    host: 10.0.0.100
    algorithm: ffsplit
  heuristics:
    mode: "on"
    exec_ping: /usr/bin/ping -c 1 10.0.0.254
`

// TestCompleteValidationWorkflow tests a complete validation journey:
// a request document travels through parsing, structural checks, every
// corosync validation pass, metric recording and the audit trail.
func TestCompleteValidationWorkflow(t *testing.T) {
	t.Log("=== E2E Test: Complete Validation Workflow ===")

	registry := metrics.NewRegistry()
	auditLog := audit.NewAuditLogger(32)
	ctx := context.Background()

	// Step 1: Parse the request document
	t.Log("Step 1: Parsing request document...")
	doc, err := request.Parse([]byte(clusterRequestYAML))
	require.NoError(t, err, "Request document should parse")
	require.Len(t, doc.Nodes, 3)
	t.Logf("✓ Parsed request for cluster %q with %d nodes", doc.ClusterName, len(doc.Nodes))

	// Step 2: Structural validation
	t.Log("Step 2: Structural validation...")
	require.NoError(t, request.ValidateDocument(doc), "Structure should be valid")
	t.Log("✓ Structure accepted")

	// Step 3: Run every domain validation pass
	t.Log("Step 3: Domain validation passes...")
	nodes := make([]corosync.Node, len(doc.Nodes))
	for i, node := range doc.Nodes {
		nodes[i] = corosync.Node{Name: node.Name, Addrs: node.Addrs}
	}

	passes := []struct {
		operation audit.Operation
		items     []report.Item
	}{
		{audit.OperationCreate, corosync.Create(ctx, staticResolver{}, doc.ClusterName, nodes, doc.Transport, false)},
		{audit.OperationLinkList, corosync.CreateLinkListKnet(doc.Links, doc.MaxLinkNumber())},
		{audit.OperationTransport, corosync.CreateTransportKnet(doc.TransportOptions, doc.Compression, doc.Crypto)},
		{audit.OperationTotem, corosync.CreateTotem(doc.Totem)},
		{audit.OperationQuorum, corosync.CreateQuorumOptions(doc.Quorum, doc.Qdevice != nil)},
		{audit.OperationQdeviceAdd, corosync.AddQuorumDevice(
			doc.Qdevice.Model, doc.Qdevice.Options, doc.Qdevice.Generic, doc.Qdevice.Heuristics,
			[]string{"1", "2", "3"}, false, false)},
	}
	for _, pass := range passes {
		assert.Empty(t, pass.items, "Pass %s should be clean", pass.operation)
	}
	t.Logf("✓ All %d passes clean", len(passes))

	// Step 4: Record metrics and audit events for every pass
	t.Log("Step 4: Recording metrics and audit events...")
	for _, pass := range passes {
		errorCount := report.CountSeverity(pass.items, report.SeverityError)
		warningCount := report.CountSeverity(pass.items, report.SeverityWarning)
		registry.RecordValidation(string(pass.operation), errorCount, warningCount, time.Millisecond)
		require.NoError(t, auditLog.Log(audit.NewEvent(pass.operation, doc.ClusterName, errorCount, warningCount)))
	}
	assert.Equal(t, int64(len(passes)), auditLog.GetEventCount(), "One audit event per pass")
	t.Logf("✓ Recorded %d events", auditLog.GetEventCount())

	// Step 5: Introduce invalid device options and observe the errors
	t.Log("Step 5: Validating broken quorum device options...")
	brokenGeneric := map[string]string{"timeout": "-3", "nonsense": "1"}
	brokenItems := corosync.AddQuorumDevice(
		doc.Qdevice.Model, doc.Qdevice.Options, brokenGeneric, nil,
		[]string{"1", "2", "3"}, false, false,
	)
	require.True(t, report.HasErrors(brokenItems), "Broken device options should error")
	assert.Len(t, brokenItems, 2)
	for _, item := range brokenItems {
		assert.Equal(t, report.SeverityError, item.Severity)
		assert.Equal(t, report.ForceOptions, item.ForceCode, "Both findings should be forceable")
	}
	t.Logf("✓ Found %d errors, both carrying %s", len(brokenItems), report.ForceOptions)

	// Step 6: Run the same input forced and observe the downgrade
	t.Log("Step 6: Re-running with force...")
	forcedItems := corosync.AddQuorumDevice(
		doc.Qdevice.Model, doc.Qdevice.Options, brokenGeneric, nil,
		[]string{"1", "2", "3"}, false, true,
	)
	require.Len(t, forcedItems, 2)
	for _, item := range forcedItems {
		assert.Equal(t, report.SeverityWarning, item.Severity, "Forced findings should be warnings")
		assert.Empty(t, item.ForceCode, "A downgraded finding offers no further escape")
	}
	registry.RecordForcedRun(string(audit.OperationQdeviceAdd))
	t.Log("✓ Errors downgraded to warnings")

	// Step 7: Render findings the way the CLI does
	t.Log("Step 7: Rendering findings as JSON...")
	rendered, err := json.Marshal(brokenItems[0])
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rendered, &decoded))
	assert.Equal(t, "ERROR", decoded["severity"])
	assert.Equal(t, string(report.ForceOptions), decoded["force_code"])
	assert.NotEmpty(t, decoded["message"])
	t.Logf("✓ Rendered: %s", rendered)

	// Step 8: Inspect the audit trail
	t.Log("Step 8: Checking audit trail...")
	events := auditLog.GetEvents(&audit.Filter{Cluster: doc.ClusterName})
	require.Len(t, events, len(passes))
	assert.Equal(t, audit.OperationCreate, events[0].Operation, "Events should be oldest first")
	for _, event := range events {
		assert.Equal(t, audit.StatusClean, event.Status)
		assert.NotEmpty(t, event.ID)
	}
	runs := counterValue(t, registry.ValidationRunsTotal.WithLabelValues(string(audit.OperationQuorum), "clean"))
	assert.Equal(t, float64(1), runs, "Quorum pass should be counted once")
	t.Logf("✓ Audit trail holds %d events", len(events))

	t.Log("=== E2E Test: PASSED ===")
}

// TestConstraintWorkflow tests building set-based constraints over a
// configuration tree: id resolution, option preparation, duplicate
// detection and the exported payload.
func TestConstraintWorkflow(t *testing.T) {
	t.Log("=== E2E Test: Constraint Workflow ===")

	registry := metrics.NewRegistry()
	tree, constraints := buildTestCib()

	// Step 1: Resolve resource references, repairing into the clone
	t.Log("Step 1: Preparing resource sets...")
	sets, err := constraint.PrepareResourceSetList(tree, true, false, []resourceset.Set{
		{IDs: []string{"database", "webserver"}, Options: map[string]string{"sequential": "true"}},
		{IDs: []string{"replicated"}, Options: map[string]string{"require-all": "false"}},
	})
	require.NoError(t, err, "Sets should prepare")
	assert.Equal(t, []string{"database", "webserver"}, sets[0].IDs)
	assert.Equal(t, []string{"replicated-clone"}, sets[1].IDs, "Cloned member should repair to its wrapper")
	t.Log("✓ Sets prepared, cloned member repaired")

	// Step 2: Prepare options with a generated id
	t.Log("Step 2: Preparing constraint options...")
	options, err := constraint.PrepareOptions(
		[]string{"kind", "symmetrical"},
		map[string]string{"kind": "Mandatory"},
		func() string {
			registry.RecordGeneratedID()
			return constraint.CreateID(tree, "rsc_order", sets)
		},
		func(id string) error { return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "pcs_rsc_order_set_database_webserver_set_replicated-clone", options["id"])
	t.Logf("✓ Options prepared with id %q", options["id"])

	// Step 3: Create the constraint element
	t.Log("Step 3: Creating the constraint...")
	element := constraint.CreateWithSet(constraints, "rsc_order", options, sets)
	registry.RecordConstraintCreated("rsc_order")
	exported := constraint.ExportWithSet(element)
	require.Len(t, exported.ResourceSets, 2)
	assert.Equal(t, []string{"database", "webserver"}, exported.ResourceSets[0].IDs)
	assert.Equal(t, "Mandatory", exported.Attributes["kind"])
	t.Log("✓ Constraint created")

	// Step 4: An identical request is caught as a duplicate
	t.Log("Step 4: Detecting the duplicate...")
	duplicate := constraint.CreateWithSet(constraints, "rsc_order", map[string]string{"id": "dup"}, sets)
	err = constraint.CheckIsWithoutDuplication(
		constraints, duplicate,
		constraint.HaveDuplicateResourceSets,
		func(element *cib.Element) any { return constraint.ExportWithSet(element) },
	)
	require.Error(t, err, "The duplicate should be rejected")
	registry.RecordConstraintDuplicate()
	items := report.ItemsFromError(err)
	require.Len(t, items, 1)
	assert.Equal(t, report.CodeDuplicateConstraintsExist, items[0].Code)
	t.Log("✓ Duplicate rejected")

	// Step 5: A different member order is no duplicate
	t.Log("Step 5: Accepting a distinct constraint...")
	reversed := []resourceset.Set{{IDs: []string{"webserver", "database"}}}
	distinct := constraint.CreateWithSet(constraints, "rsc_order", map[string]string{"id": "distinct"}, reversed)
	err = constraint.CheckIsWithoutDuplication(
		constraints, distinct,
		constraint.HaveDuplicateResourceSets,
		func(element *cib.Element) any { return constraint.ExportWithSet(element) },
	)
	require.NoError(t, err, "A distinct constraint should pass")
	t.Log("✓ Distinct constraint accepted")

	created := counterValue(t, registry.ConstraintsCreatedTotal.WithLabelValues("rsc_order"))
	assert.Equal(t, float64(1), created)
	t.Log("=== E2E Test: Constraint Workflow PASSED ===")
}

// TestConcurrentValidations tests many clients validating at once against
// shared metrics and audit infrastructure.
func TestConcurrentValidations(t *testing.T) {
	t.Log("=== E2E Test: Concurrent Validations ===")

	registry := metrics.NewRegistry()
	auditLog := audit.NewAuditLogger(1024)

	numWorkers := 8
	runsPerWorker := 25

	var wg sync.WaitGroup
	workerErrors := make(chan error, numWorkers)

	t.Logf("Spawning %d workers, each validating %d documents...", numWorkers, runsPerWorker)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		workerID := i

		go func() {
			defer wg.Done()

			for j := 0; j < runsPerWorker; j++ {
				// Every third run carries a broken option
				options := map[string]string{"wait_for_all": "1"}
				if j%3 == 0 {
					options["wait_for_all"] = "maybe"
				}

				items := corosync.CreateQuorumOptions(options, false)
				errorCount := report.CountSeverity(items, report.SeverityError)
				if j%3 == 0 && errorCount == 0 {
					workerErrors <- fmt.Errorf("worker %d run %d: broken input passed", workerID, j)
					return
				}

				registry.RecordValidation(string(audit.OperationQuorum), errorCount, 0, time.Microsecond)
				event := audit.NewEvent(audit.OperationQuorum, fmt.Sprintf("cluster-%d", workerID), errorCount, 0)
				if err := auditLog.Log(event); err != nil {
					workerErrors <- fmt.Errorf("worker %d run %d: %w", workerID, j, err)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(workerErrors)

	var errList []error
	for err := range workerErrors {
		errList = append(errList, err)
	}
	require.Empty(t, errList, "Concurrent validations should succeed")

	expected := int64(numWorkers * runsPerWorker)
	assert.Equal(t, expected, auditLog.GetEventCount(), "Every run should be audited")

	perWorker := auditLog.GetEvents(&audit.Filter{Cluster: "cluster-0"})
	assert.Len(t, perWorker, runsPerWorker)

	clean := counterValue(t, registry.ValidationRunsTotal.WithLabelValues(string(audit.OperationQuorum), "clean"))
	failed := counterValue(t, registry.ValidationRunsTotal.WithLabelValues(string(audit.OperationQuorum), "errors"))
	assert.Equal(t, float64(expected), clean+failed, "Every run should be counted")
	t.Logf("✓ %d runs recorded (%v clean, %v with errors)", expected, clean, failed)

	t.Log("=== E2E Test: Concurrent Validations PASSED ===")
}

// TestValidationErrorScenarios tests malformed input at every layer.
func TestValidationErrorScenarios(t *testing.T) {
	t.Log("=== E2E Test: Error Scenarios ===")
	ctx := context.Background()

	// Test 1: Malformed YAML
	t.Log("Test 1: Malformed YAML...")
	_, err := request.Parse([]byte("nodes: [unterminated"))
	require.Error(t, err, "Malformed YAML should be rejected")
	t.Log("✓ Malformed YAML rejected")

	// Test 2: Structurally empty request
	t.Log("Test 2: Request without nodes...")
	err = request.ValidateDocument(&request.Document{ClusterName: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nodes", "The failing field should be named")
	t.Log("✓ Empty node list rejected")

	// Test 3: Unresolvable addresses, plain and forced
	t.Log("Test 3: Unresolvable node address...")
	nodes := []corosync.Node{{Name: "node1", Addrs: []string{"no-such-host.invalid"}}}
	items := corosync.Create(ctx, failingResolver{}, "demo", nodes, corosync.TransportKnet, false)
	require.Len(t, items, 1)
	assert.Equal(t, report.CodeNodeAddressesUnresolvable, items[0].Code)
	assert.Equal(t, report.SeverityError, items[0].Severity)
	assert.Equal(t, report.ForceNodeAddressesUnresolvable, items[0].ForceCode)

	forced := corosync.Create(ctx, failingResolver{}, "demo", nodes, corosync.TransportKnet, true)
	require.Len(t, forced, 1)
	assert.Equal(t, report.SeverityWarning, forced[0].Severity)
	assert.Empty(t, forced[0].ForceCode)
	t.Log("✓ Unresolvable address errors, force downgrades it")

	// Test 4: Unknown quorum device model, plain and forced
	t.Log("Test 4: Unknown quorum device model...")
	items = corosync.AddQuorumDevice("disk", nil, nil, nil, nil, false, false)
	require.Len(t, items, 1)
	assert.Equal(t, report.SeverityError, items[0].Severity)
	assert.Equal(t, report.ForceQdeviceModel, items[0].ForceCode)

	forced = corosync.AddQuorumDevice("disk", nil, nil, nil, nil, true, false)
	require.Len(t, forced, 1)
	assert.Equal(t, report.SeverityWarning, forced[0].Severity)
	t.Log("✓ Unknown model errors, force downgrades it")

	// Test 5: Constraint on a missing resource
	t.Log("Test 5: Constraint on a missing resource...")
	tree, _ := buildTestCib()
	_, err = constraint.FindValidResourceID(tree, false, false, "ghost")
	require.Error(t, err)
	var libErr *report.LibraryError
	require.True(t, errors.As(err, &libErr), "Resolution failures carry report items")
	items = report.ItemsFromError(err)
	require.Len(t, items, 1)
	assert.Equal(t, report.CodeResourceDoesNotExist, items[0].Code)
	assert.Equal(t, "ghost", items[0].Details["resource_id"])
	t.Log("✓ Missing resource reported")

	t.Log("=== E2E Test: Error Scenarios PASSED ===")
}

// Helper functions

// staticResolver answers every lookup without touching DNS.
type staticResolver struct{}

func (staticResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	return []string{"192.0.2.10"}, nil
}

// failingResolver fails every lookup.
type failingResolver struct{}

func (failingResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	return nil, fmt.Errorf("lookup %s: no such host", host)
}

// buildTestCib creates a tree with two plain resources, one cloned resource
// and an empty constraints section.
func buildTestCib() (*cib.Element, *cib.Element) {
	root := cib.NewElement("cib")
	resources := root.NewChild("resources")

	for _, id := range []string{"database", "webserver"} {
		primitive := resources.NewChild("primitive")
		primitive.SetAttribute("id", id)
	}

	clone := resources.NewChild("clone")
	clone.SetAttribute("id", "replicated-clone")
	cloned := clone.NewChild("primitive")
	cloned.SetAttribute("id", "replicated")

	constraints := root.NewChild("constraints")
	return root, constraints
}

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	return metric.GetCounter().GetValue()
}
