// Package corosync validates corosync.conf changes before they are applied
// to a cluster. Each function inspects one kind of change (cluster create,
// link options, transport options, quorum and quorum device settings) and
// returns report items for every violation found. Nothing here mutates
// configuration; callers abort on errors and surface warnings.
package corosync

import "regexp"

// Corosync transport names.
const (
	TransportKnet = "knet"
	TransportUDP  = "udp"
	TransportUDPU = "udpu"
)

// Transport families. Knet supports multiple links per node, the plain UDP
// transports exactly one.
var (
	TransportsKnet = []string{TransportKnet}
	TransportsUDP  = []string{TransportUDP, TransportUDPU}
	TransportsAll  = []string{TransportKnet, TransportUDP, TransportUDPU}
)

// Bounds on the number of links (and therefore node addresses) per
// transport family.
const (
	LinksKnetMin = 1
	LinksKnetMax = 8
	LinksUDPMin  = 1
	LinksUDPMax  = 1
)

// QuorumOptions lists the configurable options of the quorum section.
var QuorumOptions = []string{
	"auto_tie_breaker",
	"last_man_standing",
	"last_man_standing_window",
	"wait_for_all",
}

// QuorumOptionsIncompatibleWithQdevice lists quorum options that cannot be
// used when the cluster has a quorum device configured.
var QuorumOptionsIncompatibleWithQdevice = []string{
	"auto_tie_breaker",
	"last_man_standing",
	"last_man_standing_window",
}

// QdeviceModelNet is the only supported quorum device model.
const QdeviceModelNet = "net"

var qdeviceModels = []string{QdeviceModelNet}

var (
	qdeviceNetRequiredOptions = []string{"algorithm", "host"}
	qdeviceNetOptionalOptions = []string{
		"connect_timeout",
		"force_ip_version",
		"port",
		"tie_breaker",
	}
)

// Heuristics exec_NAME option names end up in corosync.conf verbatim, so
// the accepted syntax is strict and never overridable.
var heuristicsExecNameRe = regexp.MustCompile(`^exec_[^.:{}#\s]+$`)
