// Package network enumerates candidate broadcast addresses for Art-Net output.
package network

import (
	"fmt"
	"net"
	"strings"
)

// BroadcastOption is one candidate destination for Art-Net packets.
type BroadcastOption struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Broadcast     string `json:"broadcast"`
	InterfaceType string `json:"interfaceType"` // "ethernet", "wifi", "other", "localhost", "global"
}

// interfaceType guesses the link type from common interface naming patterns.
func interfaceType(ifaceName string) string {
	name := strings.ToLower(ifaceName)

	if strings.HasPrefix(name, "wlan") ||
		strings.HasPrefix(name, "wl") ||
		strings.Contains(name, "wifi") ||
		strings.Contains(name, "wireless") {
		return "wifi"
	}
	if strings.HasPrefix(name, "eth") ||
		strings.HasPrefix(name, "en") {
		return "ethernet"
	}
	return "other"
}

// broadcastFor computes the IPv4 directed broadcast address of a subnet.
func broadcastFor(ip net.IP, mask net.IPMask) net.IP {
	ip4 := ip.To4()
	if ip4 == nil || mask == nil {
		return nil
	}
	if len(mask) == 16 {
		mask = mask[12:16]
	}
	if len(mask) != 4 {
		return nil
	}

	broadcast := make(net.IP, 4)
	for i := 0; i < 4; i++ {
		broadcast[i] = ip4[i] | ^mask[i]
	}
	return broadcast
}

// DiscoverBroadcastOptions lists every usable IPv4 broadcast destination:
// one per up, non-loopback interface, ordered ethernet first, then wifi,
// then the localhost and global fallbacks.
func DiscoverBroadcastOptions() ([]BroadcastOption, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	byType := map[string][]BroadcastOption{}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			broadcast := broadcastFor(ip4, ipNet.Mask)
			if broadcast == nil || broadcast.String() == ip4.String() {
				continue
			}

			kind := interfaceType(iface.Name)
			byType[kind] = append(byType[kind], BroadcastOption{
				Name:          iface.Name,
				Address:       ip4.String(),
				Broadcast:     broadcast.String(),
				InterfaceType: kind,
			})
		}
	}

	options := make([]BroadcastOption, 0, 8)
	options = append(options, byType["ethernet"]...)
	options = append(options, byType["wifi"]...)
	options = append(options, byType["other"]...)

	options = append(options, BroadcastOption{
		Name:          "localhost",
		Address:       "127.0.0.1",
		Broadcast:     "127.0.0.1",
		InterfaceType: "localhost",
	})
	options = append(options, BroadcastOption{
		Name:          "global-broadcast",
		Address:       "0.0.0.0",
		Broadcast:     "255.255.255.255",
		InterfaceType: "global",
	})

	return options, nil
}
