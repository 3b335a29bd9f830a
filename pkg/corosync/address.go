package corosync

import (
	"context"
	"net"
	"time"

	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// Address types a node address literal can classify as.
const (
	AddrIPv4         = "IPv4"
	AddrIPv6         = "IPv6"
	AddrFQDN         = "FQDN"
	AddrUnresolvable = "unresolvable"
)

// DefaultResolveTimeout bounds a single host name lookup during address
// classification.
const DefaultResolveTimeout = 5 * time.Second

// Resolver looks up host names when node addresses are classified. It is
// satisfied by *net.Resolver.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Node describes one node of a cluster create request.
type Node struct {
	Name  string
	Addrs []string
}

// addressClassifier determines address types, resolving each distinct
// literal at most once per validation run.
type addressClassifier struct {
	resolver Resolver
	cache    map[string]string
}

func newAddressClassifier(resolver Resolver) *addressClassifier {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &addressClassifier{
		resolver: resolver,
		cache:    map[string]string{},
	}
}

func (c *addressClassifier) classify(ctx context.Context, addr string) string {
	if addrType, ok := c.cache[addr]; ok {
		return addrType
	}
	addrType := c.resolve(ctx, addr)
	c.cache[addr] = addrType
	return addrType
}

func (c *addressClassifier) resolve(ctx context.Context, addr string) string {
	if validate.IsIPv4Address(addr) {
		return AddrIPv4
	}
	if validate.IsIPv6Address(addr) {
		return AddrIPv6
	}
	lookupCtx, cancel := context.WithTimeout(ctx, DefaultResolveTimeout)
	defer cancel()
	if _, err := c.resolver.LookupHost(lookupCtx, addr); err != nil {
		return AddrUnresolvable
	}
	return AddrFQDN
}

func (c *addressClassifier) unresolvableAddresses() []string {
	var addrs []string
	for addr, addrType := range c.cache {
		if addrType == AddrUnresolvable {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
