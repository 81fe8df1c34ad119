package torrentfile

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/Squwid/squidcodec/bencode"
	"github.com/Squwid/squidcodec/peers"
)

var ErrTrackerFailure = errors.New("tracker returned failure")

// TrackerResponse is a decoded announce response
type TrackerResponse struct {
	Interval    int64 // How often to reconnect to the tracker to refresh list of peers (in seconds)
	MinInterval int64
	Complete    int64
	Incomplete  int64
	Peers       []peers.Peer
}

// TrackerURL builds the GET url used to announce presence as a peer and receive a list of other peers
func (tf *TorrentFile) TrackerURL(peerID [20]byte, port uint16) (string, error) {
	base, err := url.Parse(tf.Announce)
	if err != nil {
		return "", err
	}

	// https://www.bittorrent.org/beps/bep_0003.html
	params := base.Query()
	params.Set("info_hash", string(tf.Info.InfoHash[:])) // Identifies the content that is gonna get downloaded
	params.Set("peer_id", string(peerID[:]))
	params.Set("port", strconv.Itoa(int(port)))
	params.Set("uploaded", "0")
	params.Set("downloaded", "0")
	params.Set("compact", "1")
	params.Set("left", strconv.FormatInt(tf.Info.TotalLength(), 10))

	base.RawQuery = params.Encode()
	return base.String(), nil
}

// ParseTrackerResponse decodes the body of an announce response. Peers may be
// in compact form (6 bytes each, peers6 18 bytes each) or a list of dictionaries.
func ParseTrackerResponse(data []byte) (*TrackerResponse, error) {
	v, err := bencode.DecodeExact(data)
	if err != nil {
		return nil, fmt.Errorf("decoding tracker response: %w", err)
	}
	d, ok := v.(bencode.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: tracker response is a %v, expected dictionary", ErrInvalidField, v.Kind())
	}

	if reason, present, err := textField(d, "failure reason"); err != nil {
		return nil, err
	} else if present {
		return nil, fmt.Errorf("%w: %s", ErrTrackerFailure, reason)
	}

	var resp TrackerResponse
	interval, err := requireField[bencode.Int](d, "interval")
	if err != nil {
		return nil, err
	}
	resp.Interval = int64(interval)

	for key, dst := range map[string]*int64{
		"min interval": &resp.MinInterval,
		"complete":     &resp.Complete,
		"incomplete":   &resp.Incomplete,
	} {
		n, _, err := field[bencode.Int](d, key)
		if err != nil {
			return nil, err
		}
		*dst = int64(n)
	}

	switch p := d["peers"].(type) {
	case nil:
	case bencode.Bytes:
		if resp.Peers, err = peers.Unmarshal(p); err != nil {
			return nil, err
		}
	case bencode.List:
		if resp.Peers, err = dictPeers(p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: \"peers\" is a %v", ErrInvalidField, p.Kind())
	}

	compact6, _, err := field[bencode.Bytes](d, "peers6")
	if err != nil {
		return nil, err
	}
	if len(compact6) > 0 {
		ps, err := peers.Unmarshal6(compact6)
		if err != nil {
			return nil, err
		}
		resp.Peers = append(resp.Peers, ps...)
	}
	return &resp, nil
}

func dictPeers(l bencode.List) ([]peers.Peer, error) {
	out := make([]peers.Peer, 0, len(l))
	for i, item := range l {
		pd, ok := item.(bencode.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: peers[%d] is a %v, expected dictionary", ErrInvalidField, i, kindOf(item))
		}
		ip, err := requireText(pd, "ip")
		if err != nil {
			return nil, fmt.Errorf("peers[%d]: %w", i, err)
		}
		port, err := requireField[bencode.Int](pd, "port")
		if err != nil {
			return nil, fmt.Errorf("peers[%d]: %w", i, err)
		}

		parsed := net.ParseIP(ip)
		if parsed == nil || port < 0 || port > 65535 {
			return nil, fmt.Errorf("%w: peers[%d] %s:%d", ErrInvalidField, i, ip, port)
		}
		out = append(out, peers.Peer{IP: parsed, Port: uint16(port)})
	}
	return out, nil
}
