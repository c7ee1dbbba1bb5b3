package dhcp

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ServerPort is the bootps port. The probe binds it locally as well:
// servers address relay replies to giaddr on this port.
const ServerPort = 67

// Dial opens the single UDP socket used for the whole probe, bound to
// local (the wildcard address when empty) and connected to the target
// server. Connecting only pins the peer address and filters ingress; no
// DHCP exchange happens here.
func Dial(ctx context.Context, local, server string) (*net.UDPConn, error) {
	return dial(ctx, local, server, ServerPort, ServerPort)
}

func dial(ctx context.Context, local, server string, lport, rport int) (*net.UDPConn, error) {
	laddrs, err := resolve(ctx, local, lport)
	if err != nil {
		if local == "" {
			local = "*"
		}
		return nil, fmt.Errorf("local address %s: %w", local, err)
	}

	raddrs, err := resolve(ctx, server, rport)
	if err != nil {
		return nil, fmt.Errorf("server %s: %w", server, err)
	}

	lastErr := errors.New("no usable address")
	for _, laddr := range laddrs {
		for _, raddr := range raddrs {
			conn, err := net.DialUDP("udp4", laddr, raddr)
			if err != nil {
				lastErr = err
				continue
			}
			return conn, nil
		}
	}
	return nil, fmt.Errorf("server %s: %w", server, lastErr)
}

// resolve returns candidate addresses in resolver order; callers try them
// one by one and keep the first that binds and connects.
func resolve(ctx context.Context, host string, port int) ([]*net.UDPAddr, error) {
	if host == "" {
		return []*net.UDPAddr{{Port: port}}, nil
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	addrs := make([]*net.UDPAddr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, &net.UDPAddr{IP: ip.IP, Zone: ip.Zone, Port: port})
	}
	return addrs, nil
}
