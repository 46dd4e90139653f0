package domain

import (
	"regexp"
	"sort"
)

var (
	macRegex       = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)
	interfaceRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_.]+$`)
)

// Adapter is a handle to one wireless interface as reported by an AdapterRegistry.
// The engine never owns it; it only keeps it for the lifetime of one worker.
type Adapter struct {
	Name string `json:"name"`
	Phy  string `json:"phy,omitempty"`
	MAC  string `json:"mac,omitempty"`
}

// NewAdapter is the factory for creating valid adapter handles.
func NewAdapter(name, phy, mac string) (Adapter, error) {
	if !IsValidInterface(name) {
		return Adapter{}, ErrInvalidInterfaceName
	}
	if mac != "" && !IsValidMAC(mac) {
		return Adapter{}, ErrInvalidMAC
	}
	return Adapter{Name: name, Phy: phy, MAC: mac}, nil
}

// ID is the identity used for membership comparison.
func (a Adapter) ID() string {
	return a.Name
}

func (a Adapter) String() string {
	return a.Name
}

// AdapterIDs returns the sorted identities of the given adapters.
func AdapterIDs(adapters []Adapter) []string {
	ids := make([]string, 0, len(adapters))
	for _, a := range adapters {
		ids = append(ids, a.ID())
	}
	sort.Strings(ids)
	return ids
}

// IsValidMAC checks if the string is a valid MAC address
func IsValidMAC(mac string) bool {
	return macRegex.MatchString(mac)
}

// IsValidInterface checks if the string is a safe interface name.
// IFNAMSIZ on Linux is 16 including the terminator.
func IsValidInterface(iface string) bool {
	if len(iface) == 0 || len(iface) > 15 {
		return false
	}
	return interfaceRegex.MatchString(iface)
}
