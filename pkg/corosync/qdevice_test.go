package corosync

import (
	"slices"
	"testing"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

// TestAddQuorumDeviceValid tests a complete valid net model setup.
func TestAddQuorumDeviceValid(t *testing.T) {
	items := AddQuorumDevice(
		"net",
		map[string]string{
			"algorithm":       "ffsplit",
			"host":            "qnetd.example.com",
			"connect_timeout": "5000",
			"port":            "5403",
			"tie_breaker":     "2",
		},
		map[string]string{"timeout": "5000", "sync_timeout": "15000"},
		map[string]string{"mode": "on", "exec_ping": "ping -c1 10.0.0.1"},
		[]string{"1", "2", "3"},
		false, false,
	)
	if len(items) != 0 {
		t.Fatalf("expected no reports, got %+v", items)
	}
}

// TestAddQuorumDeviceUnknownModel tests the model check and its dedicated
// force code. Options of an unknown model are not inspected.
func TestAddQuorumDeviceUnknownModel(t *testing.T) {
	items := AddQuorumDevice(
		"disk", map[string]string{"path": "/dev/sdb"}, nil, nil, nil,
		false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].ForceCode != report.ForceQdeviceModel {
		t.Errorf("expected the qdevice model force code, got %q", items[0].ForceCode)
	}
	if items[0].Details["allowed_values"] != "'net'" {
		t.Errorf("expected 'net' as the only model, got %v",
			items[0].Details["allowed_values"])
	}

	forced := AddQuorumDevice(
		"disk", nil, nil, nil, nil,
		true, false,
	)
	assertCodes(t, forced, report.CodeInvalidOptionValue)
	if forced[0].Severity != report.SeverityWarning || forced[0].ForceCode != "" {
		t.Errorf("expected a pre-downgraded warning, got %+v", forced[0])
	}
}

// TestAddQuorumDeviceNetRequiredOptions tests that algorithm and host
// must be given.
func TestAddQuorumDeviceNetRequiredOptions(t *testing.T) {
	items := AddQuorumDevice("net", nil, nil, nil, nil, false, false)
	assertCodes(t, items,
		report.CodeRequiredOptionIsMissing,
		report.CodeRequiredOptionIsMissing,
	)
	for _, item := range items {
		if item.Details["option_type"] != "quorum device model" {
			t.Errorf("expected the model option type, got %v",
				item.Details["option_type"])
		}
	}
}

// TestAddQuorumDeviceNetAlgorithm tests the algorithm rules: an empty
// value is rejected outright, a wrong value honors the force flag.
func TestAddQuorumDeviceNetAlgorithm(t *testing.T) {
	// Empty algorithm stays an error even with forced options.
	items := AddQuorumDevice(
		"net",
		map[string]string{"algorithm": "", "host": "qnetd.example.com"},
		nil, nil, nil,
		false, true,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].Severity != report.SeverityError || items[0].ForceCode != "" {
		t.Errorf("empty algorithm must not be forceable, got %+v", items[0])
	}
	if items[0].Details["allowed_values"] != "'ffsplit', 'lms'" {
		t.Errorf("expected the algorithm list, got %v", items[0].Details["allowed_values"])
	}

	// A wrong value is forceable.
	items = AddQuorumDevice(
		"net",
		map[string]string{"algorithm": "2plus2", "host": "qnetd.example.com"},
		nil, nil, nil,
		false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].ForceCode != report.ForceOptions {
		t.Errorf("expected the options force code, got %q", items[0].ForceCode)
	}

	forced := AddQuorumDevice(
		"net",
		map[string]string{"algorithm": "2plus2", "host": "qnetd.example.com"},
		nil, nil, nil,
		false, true,
	)
	assertCodes(t, forced, report.CodeInvalidOptionValue)
	if forced[0].Severity != report.SeverityWarning {
		t.Errorf("expected a warning when forced, got %s", forced[0].Severity)
	}
}

// TestAddQuorumDeviceNetOptionValues tests the optional net model options.
func TestAddQuorumDeviceNetOptionValues(t *testing.T) {
	base := func(extra map[string]string) map[string]string {
		options := map[string]string{
			"algorithm": "lms",
			"host":      "qnetd.example.com",
		}
		for name, value := range extra {
			options[name] = value
		}
		return options
	}

	items := AddQuorumDevice(
		"net", base(map[string]string{"connect_timeout": "999"}),
		nil, nil, nil, false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].Details["allowed_values"] != "1000..120000" {
		t.Errorf("expected the connect_timeout range, got %v",
			items[0].Details["allowed_values"])
	}

	items = AddQuorumDevice(
		"net", base(map[string]string{"tie_breaker": "9"}),
		nil, nil, []string{"1", "2"}, false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].Details["allowed_values"] != "'lowest', 'highest', '1', '2'" {
		t.Errorf("expected node ids accepted as tie breakers, got %v",
			items[0].Details["allowed_values"])
	}

	items = AddQuorumDevice(
		"net", base(map[string]string{"fish": "1"}),
		nil, nil, nil, false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptions)
	if items[0].ForceCode != report.ForceOptions {
		t.Errorf("unknown model options are forceable, got %q", items[0].ForceCode)
	}
}

// TestQdeviceGenericOptions tests the generic option checks and the
// special treatment of "model" slipping in.
func TestQdeviceGenericOptions(t *testing.T) {
	items := AddQuorumDevice(
		"net",
		map[string]string{"algorithm": "ffsplit", "host": "h"},
		map[string]string{"timeout": "0"},
		nil, nil, false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].ForceCode != report.ForceOptions {
		t.Errorf("expected a forceable timeout report, got %q", items[0].ForceCode)
	}

	// "model" is never forceable in generic options, other unknown names
	// are; the model report comes first.
	items = AddQuorumDevice(
		"net",
		map[string]string{"algorithm": "ffsplit", "host": "h"},
		map[string]string{"model": "net", "votes": "2"},
		nil, nil, false, true,
	)
	assertCodes(t, items, report.CodeInvalidOptions, report.CodeInvalidOptions)
	if items[0].Severity != report.SeverityError || items[0].ForceCode != "" {
		t.Errorf("the model report must stay an error, got %+v", items[0])
	}
	modelNames, _ := items[0].Details["option_names"].([]string)
	if !slices.Equal(modelNames, []string{"model"}) {
		t.Errorf("expected the model report first, got %v", items[0].Details["option_names"])
	}
	if items[1].Severity != report.SeverityWarning {
		t.Errorf("expected the unknown name downgraded, got %+v", items[1])
	}
}

// TestQdeviceHeuristicsOptions tests the heuristics checks on add: value
// rules, the exec name syntax and the report order.
func TestQdeviceHeuristicsOptions(t *testing.T) {
	valid := map[string]string{
		"mode":      "sync",
		"interval":  "30",
		"exec_ls":   "test -f /tmp/flag",
		"exec_ping": "ping -c1 router",
	}
	items := AddQuorumDevice(
		"net", map[string]string{"algorithm": "ffsplit", "host": "h"},
		nil, valid, nil, false, false,
	)
	if len(items) != 0 {
		t.Fatalf("expected no reports, got %+v", items)
	}

	// An exec command must not be empty when adding.
	items = AddQuorumDevice(
		"net", map[string]string{"algorithm": "ffsplit", "host": "h"},
		nil, map[string]string{"exec_check": ""}, nil, false, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].Details["allowed_values"] != "a command to be run" {
		t.Errorf("expected the exec value description, got %v",
			items[0].Details["allowed_values"])
	}

	// Bad exec names are rejected without a force escape; their values
	// are not inspected.
	items = AddQuorumDevice(
		"net", map[string]string{"algorithm": "ffsplit", "host": "h"},
		nil, map[string]string{"exec_a.b": ""}, nil, false, true,
	)
	assertCodes(t, items, report.CodeInvalidUserdefinedOptions)
	if items[0].Severity != report.SeverityError || items[0].ForceCode != "" {
		t.Errorf("exec name syntax must not be forceable, got %+v", items[0])
	}

	// Order: value reports, unknown non-exec names, exec name reports.
	items = AddQuorumDevice(
		"net", map[string]string{"algorithm": "ffsplit", "host": "h"},
		nil,
		map[string]string{"interval": "0", "foo": "1", "exec_x y": "cmd"},
		nil, false, false,
	)
	assertCodes(t, items,
		report.CodeInvalidOptionValue,
		report.CodeInvalidOptions,
		report.CodeInvalidUserdefinedOptions,
	)
	if items[1].Details["option_type"] != "heuristics" {
		t.Errorf("expected the heuristics option type, got %v",
			items[1].Details["option_type"])
	}
	patterns, _ := items[1].Details["allowed_patterns"].([]string)
	if !slices.Equal(patterns, []string{"exec_NAME"}) {
		t.Errorf("expected the exec_NAME pattern advertised, got %v",
			items[1].Details["allowed_patterns"])
	}
}

// TestUpdateQuorumDevice tests the softer update semantics.
func TestUpdateQuorumDevice(t *testing.T) {
	// Unknown models are skipped entirely; the model cannot change.
	items := UpdateQuorumDevice(
		"disk", map[string]string{"path": "/dev/sdb"}, nil, nil, nil, false,
	)
	if len(items) != 0 {
		t.Fatalf("expected no reports for an unknown model, got %+v", items)
	}

	// Empty values clear optional settings.
	items = UpdateQuorumDevice(
		"net",
		map[string]string{"connect_timeout": "", "tie_breaker": ""},
		map[string]string{"timeout": ""},
		map[string]string{"mode": "", "exec_check": ""},
		nil, false,
	)
	if len(items) != 0 {
		t.Fatalf("expected no reports, got %+v", items)
	}

	// host and algorithm cannot be cleared.
	items = UpdateQuorumDevice(
		"net", map[string]string{"host": ""}, nil, nil, nil, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].Details["allowed_values"] != "a qdevice host address" {
		t.Errorf("expected the host description, got %v",
			items[0].Details["allowed_values"])
	}

	items = UpdateQuorumDevice(
		"net", map[string]string{"algorithm": ""}, nil, nil, nil, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)

	// Non-empty values are still validated.
	items = UpdateQuorumDevice(
		"net", nil, map[string]string{"sync_timeout": "0"}, nil, nil, false,
	)
	assertCodes(t, items, report.CodeInvalidOptionValue)
	if items[0].ForceCode != report.ForceOptions {
		t.Errorf("expected a forceable report, got %q", items[0].ForceCode)
	}
}
