package corosync

import (
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// CreateTransportUDP validates transport options for a new cluster using
// the udp or udpu transport. There is no force escape hatch here; the
// values are enums or bare numbers and unknown names must never leak into
// the generated config.
func CreateTransportUDP(options map[string]string) []report.Item {
	allowedOptions := []string{
		"ip_version",
		"netmtu",
	}
	pairs := validate.ValuesToPairs(options)
	items := validate.RunAll(
		pairs,
		validate.ValueIn("ip_version", []string{"ipv4", "ipv6"}),
		validate.ValuePositiveInteger("netmtu"),
	)
	return append(items,
		validate.NamesIn(allowedOptions, pairs.Names(), "udp/udpu transport", nil)...,
	)
}

// CreateTransportKnet validates the three option groups of the knet
// transport: generic transport options, compression options and crypto
// options. No force escape hatch, same as CreateTransportUDP.
func CreateTransportKnet(generic, compression, crypto map[string]string) []report.Item {
	genericAllowed := []string{
		"ip_version", // tells knet which IP version to prefer
		"knet_pmtud_interval",
		"link_mode",
	}
	compressionAllowed := []string{
		"level",
		"model",
		"threshold",
	}
	cryptoAllowed := []string{
		"cipher",
		"hash",
		"model",
	}

	genericPairs := validate.ValuesToPairs(generic)
	compressionPairs := validate.ValuesToPairs(compression)
	cryptoPairs := validate.ValuesToPairs(crypto)

	items := validate.RunAll(
		genericPairs,
		validate.ValueIn("ip_version", []string{"ipv4", "ipv6"}),
		validate.ValueNonnegativeInteger("knet_pmtud_interval"),
		validate.ValueIn("link_mode", []string{"active", "passive", "rr"}),
	)
	items = append(items,
		validate.NamesIn(genericAllowed, genericPairs.Names(), "transport", nil)...,
	)
	items = append(items, validate.RunAll(
		compressionPairs,
		validate.ValueNotEmpty("level", "a compression level e.g. 0..9"),
		validate.ValueNotEmpty("model", "a compression model e.g. zlib, lz4 or bzip2"),
		validate.ValueNonnegativeInteger("threshold"),
	)...)
	items = append(items,
		validate.NamesIn(compressionAllowed, compressionPairs.Names(), "compression", nil)...,
	)
	items = append(items, validate.RunAll(
		cryptoPairs,
		validate.ValueIn("cipher", []string{"none", "aes256", "aes192", "aes128", "3des"}),
		validate.ValueIn("hash", []string{"none", "md5", "sha1", "sha256", "sha384", "sha512"}),
		validate.ValueIn("model", []string{"nss", "openssl"}),
	)...)
	items = append(items,
		validate.NamesIn(cryptoAllowed, cryptoPairs.Names(), "crypto", nil)...,
	)

	// Defaults from `man corosync.conf`: cipher aes256, hash sha1.
	if cryptoValue(crypto, "cipher", "aes256") != "none" &&
		cryptoValue(crypto, "hash", "sha1") == "none" {
		items = append(items, report.CorosyncCryptoCipherRequiresCryptoHash())
	}
	return items
}

func cryptoValue(options map[string]string, name, fallback string) string {
	if value, ok := options[name]; ok {
		return value
	}
	return fallback
}

// CreateTotem validates the timing and tuning options of the totem
// section. All of them take a non-negative integer and none is forceable.
func CreateTotem(options map[string]string) []report.Item {
	allowedOptions := []string{
		"consensus",
		"downcheck",
		"fail_recv_const",
		"heartbeat_failures_allowed",
		"hold",
		"join",
		"max_messages",
		"max_network_delay",
		"merge",
		"miss_count_const",
		"send_join",
		"seqno_unchanged_const",
		"token",
		"token_coefficient",
		"token_retransmit",
		"token_retransmits_before_loss_const",
		"window_size",
	}
	checkers := make([]validate.Checker, 0, len(allowedOptions))
	for _, name := range allowedOptions {
		checkers = append(checkers, validate.ValueNonnegativeInteger(name))
	}
	pairs := validate.ValuesToPairs(options)
	items := validate.RunAll(pairs, checkers...)
	return append(items,
		validate.NamesIn(allowedOptions, pairs.Names(), "totem", nil)...,
	)
}
