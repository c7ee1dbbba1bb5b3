package dhcp

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

// PacketLen is the BOOTP minimum message size. dhcpv4 pads every frame up
// to it, so each transmission within a run has exactly this length.
const PacketLen = 300

// secs field offset within the fixed BOOTP header
const secsOffset = 8

// requestedOptions is what the probe asks the server to include in its
// reply. The set only shapes what the server may return; the probe accepts
// any reply at all, so it never affects the outcome.
var requestedOptions = []dhcpv4.OptionCode{
	dhcpv4.OptionSubnetMask,
	dhcpv4.OptionBroadcastAddress,
	dhcpv4.OptionTimeOffset,
	dhcpv4.OptionClasslessStaticRoute,
	dhcpv4.OptionRouter,
	dhcpv4.OptionDomainName,
	dhcpv4.OptionDNSDomainSearchList,
	dhcpv4.OptionDomainNameServer,
	dhcpv4.OptionHostName,
	dhcpv4.OptionBootfileName,
	dhcpv4.OptionTFTPServerName,
}

// Discover builds the relay-style DHCPDISCOVER frame for one probe run.
// giaddr must be the socket's bound IPv4 address: the server addresses its
// reply to it, treating the probe as a relay agent one hop away. The
// transaction id is derived from the process id; replies are never matched
// against it.
func Discover(hwAddr net.HardwareAddr, giaddr net.IP) ([]byte, error) {
	if len(hwAddr) != 6 {
		return nil, fmt.Errorf("invalid hardware address %s", hwAddr)
	}

	ip4 := giaddr.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("local address %s is not IPv4", giaddr)
	}

	var xid dhcpv4.TransactionID
	binary.BigEndian.PutUint32(xid[:], uint32(os.Getpid()))

	discovery, err := dhcpv4.New(
		dhcpv4.WithTransactionID(xid),
		dhcpv4.WithHwAddr(hwAddr),
		dhcpv4.WithRelay(ip4),
		dhcpv4.WithRequestedOptions(requestedOptions...),
		dhcpv4.WithMessageType(dhcpv4.MessageTypeDiscover),
	)
	if err != nil {
		return nil, err
	}

	packet := discovery.ToBytes()
	if len(packet) != PacketLen {
		return nil, fmt.Errorf("unexpected packet length %d", len(packet))
	}
	return packet, nil
}

// SetSecs patches the elapsed-seconds field in place. Nothing else in the
// frame changes between retransmissions.
func SetSecs(packet []byte, secs uint16) {
	binary.BigEndian.PutUint16(packet[secsOffset:], secs)
}
