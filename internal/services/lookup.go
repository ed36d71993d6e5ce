// Package services names well-known ports.
package services

import "github.com/kostyay/hogwatch/internal/model"

type portKey struct {
	proto model.Protocol
	port  uint16
}

var wellKnown = map[portKey]string{
	{model.ProtocolTCP, 21}:    "ftp",
	{model.ProtocolTCP, 22}:    "ssh",
	{model.ProtocolTCP, 25}:    "smtp",
	{model.ProtocolTCP, 53}:    "dns",
	{model.ProtocolUDP, 53}:    "dns",
	{model.ProtocolUDP, 67}:    "dhcp",
	{model.ProtocolUDP, 68}:    "dhcp",
	{model.ProtocolTCP, 80}:    "http",
	{model.ProtocolUDP, 123}:   "ntp",
	{model.ProtocolTCP, 143}:   "imap",
	{model.ProtocolUDP, 137}:   "netbios-ns",
	{model.ProtocolTCP, 443}:   "https",
	{model.ProtocolUDP, 443}:   "quic",
	{model.ProtocolTCP, 445}:   "smb",
	{model.ProtocolUDP, 500}:   "isakmp",
	{model.ProtocolUDP, 514}:   "syslog",
	{model.ProtocolTCP, 587}:   "submission",
	{model.ProtocolTCP, 853}:   "dns-tls",
	{model.ProtocolTCP, 993}:   "imaps",
	{model.ProtocolUDP, 1194}:  "openvpn",
	{model.ProtocolTCP, 3306}:  "mysql",
	{model.ProtocolTCP, 3389}:  "rdp",
	{model.ProtocolUDP, 5353}:  "mdns",
	{model.ProtocolTCP, 5432}:  "postgresql",
	{model.ProtocolTCP, 6379}:  "redis",
	{model.ProtocolTCP, 8080}:  "http-alt",
	{model.ProtocolTCP, 8443}:  "https-alt",
	{model.ProtocolTCP, 9090}:  "prometheus",
	{model.ProtocolUDP, 51820}: "wireguard",
}

// Name returns the service usually found on port, or "" if none is known.
func Name(proto model.Protocol, port uint16) string {
	return wellKnown[portKey{proto, port}]
}

// ForConn names the service of a connection. The remote port is tried first
// since the local side of an outgoing flow is ephemeral.
func ForConn(key model.ConnKey) string {
	if name := Name(key.Protocol, key.Remote.Port()); name != "" {
		return name
	}
	return Name(key.Protocol, key.Local.Port())
}
