package wireless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// DefaultDwell is how long one pcap scan listens for beacons.
const DefaultDwell = 500 * time.Millisecond

// PacketReader is the subset of *pcap.Handle used for capture.
type PacketReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	Close()
}

// Opener opens a capture on an interface.
type Opener func(iface string) (PacketReader, error)

// OpenMonitor opens a live capture that only sees beacon frames. The
// interface must already be in monitor mode.
func OpenMonitor(iface string) (PacketReader, error) {
	handle, err := pcap.OpenLive(iface, 1024, true, 50*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if err := handle.SetBPFFilter("type mgt subtype beacon"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("bpf filter on %s: %w", iface, err)
	}
	return handle, nil
}

// PcapCapability measures signal levels passively from beacon frames
// captured on monitor-mode interfaces.
type PcapCapability struct {
	Dwell time.Duration
	Open  Opener

	mu      sync.Mutex
	readers map[string]PacketReader
}

// NewPcapCapability returns a capability that captures with libpcap.
func NewPcapCapability(dwell time.Duration) *PcapCapability {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	return &PcapCapability{
		Dwell:   dwell,
		Open:    OpenMonitor,
		readers: make(map[string]PacketReader),
	}
}

// Scan listens on the adapter for one dwell period and returns the last
// signal seen per SSID.
func (c *PcapCapability) Scan(ctx context.Context, a domain.Adapter) (domain.Readings, error) {
	r, err := c.reader(a.Name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", a.Name, err, domain.ErrAdapterUnavailable)
	}

	readings := make(domain.Readings)
	deadline := time.Now().Add(c.Dwell)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, _, err := r.ReadPacketData()
		if err != nil {
			if errors.Is(err, pcap.NextErrorTimeoutExpired) {
				continue
			}
			c.drop(a.Name)
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("capture on %s closed: %w", a.Name, domain.ErrAdapterUnavailable)
			}
			return nil, fmt.Errorf("capture on %s: %v: %w", a.Name, err, domain.ErrAdapterUnavailable)
		}

		if id, s, ok := beaconReading(data); ok {
			readings[id] = s
		}
	}
	return readings, nil
}

// Close releases every open capture.
func (c *PcapCapability) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, r := range c.readers {
		r.Close()
		delete(c.readers, name)
	}
}

func (c *PcapCapability) reader(iface string) (PacketReader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.readers[iface]; ok {
		return r, nil
	}
	r, err := c.Open(iface)
	if err != nil {
		return nil, err
	}
	c.readers[iface] = r
	return r, nil
}

func (c *PcapCapability) drop(iface string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.readers[iface]; ok {
		r.Close()
		delete(c.readers, iface)
	}
}

// beaconReading decodes a RadioTap beacon and returns its SSID and antenna
// signal. Hidden SSIDs and frames without a signal field are rejected.
func beaconReading(data []byte) (domain.NetworkID, domain.Signal, bool) {
	packet := gopacket.NewPacket(data, layers.LayerTypeRadioTap, gopacket.NoCopy)

	rtLayer := packet.Layer(layers.LayerTypeRadioTap)
	if rtLayer == nil {
		return "", 0, false
	}
	rt, ok := rtLayer.(*layers.RadioTap)
	if !ok || !rt.Present.DBMAntennaSignal() {
		return "", 0, false
	}

	beacon := packet.Layer(layers.LayerTypeDot11MgmtBeacon)
	if beacon == nil {
		return "", 0, false
	}

	ssid, found := ssidFromIEs(beacon.LayerPayload())
	if !found {
		for _, l := range packet.Layers() {
			if ie, ok := l.(*layers.Dot11InformationElement); ok && ie.ID == layers.Dot11InformationElementIDSSID {
				ssid, found = string(ie.Info), true
				break
			}
		}
	}
	ssid = strings.Trim(ssid, "\x00")
	if !found || ssid == "" || !utf8.ValidString(ssid) {
		return "", 0, false
	}
	return domain.NetworkID(ssid), domain.Signal(rt.DBMAntennaSignal), true
}

// ssidFromIEs walks the tagged parameters of a beacon body.
func ssidFromIEs(payload []byte) (string, bool) {
	for len(payload) >= 2 {
		id, n := payload[0], int(payload[1])
		if len(payload) < 2+n {
			return "", false
		}
		if id == 0 {
			return string(payload[2 : 2+n]), true
		}
		payload = payload[2+n:]
	}
	return "", false
}
