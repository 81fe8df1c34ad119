package peers

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
)

var ErrMalformedPeers = errors.New("received malformed peers")

const peerSize = 6 // 4 bytes for ip, 2 for port

// Peer is the information for a single peer connection
type Peer struct {
	IP   net.IP
	Port uint16
}

// Unmarshal splits a compact IPv4 peer list
func Unmarshal(pbs []byte) ([]Peer, error) {
	return unmarshal(pbs, net.IPv4len)
}

// Unmarshal6 splits a compact IPv6 peer list (the peers6 key)
func Unmarshal6(pbs []byte) ([]Peer, error) {
	return unmarshal(pbs, net.IPv6len)
}

func unmarshal(pbs []byte, ipLen int) ([]Peer, error) {
	size := ipLen + 2
	if len(pbs)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformedPeers, len(pbs), size)
	}

	count := len(pbs) / size
	peers := make([]Peer, count)
	for i := 0; i < count; i++ {
		offset := i * size
		ip := make(net.IP, ipLen)
		copy(ip, pbs[offset:offset+ipLen])
		peers[i].IP = ip
		peers[i].Port = binary.BigEndian.Uint16(pbs[offset+ipLen : offset+size])
	}
	return peers, nil
}

// Marshal packs IPv4 peers into compact form, the inverse of Unmarshal
func Marshal(ps []Peer) ([]byte, error) {
	buf := make([]byte, 0, len(ps)*peerSize)
	for _, p := range ps {
		ip4 := p.IP.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("%w: %v is not an IPv4 address", ErrMalformedPeers, p.IP)
		}
		buf = append(buf, ip4...)
		buf = binary.BigEndian.AppendUint16(buf, p.Port)
	}
	return buf, nil
}

func (p Peer) String() string {
	return net.JoinHostPort(p.IP.String(), strconv.Itoa(int(p.Port)))
}
