// Package geo attributes client addresses to a location on a best-effort basis.
package geo

import (
	"context"
	"net/netip"

	"shortlink/backend/internal/model"
)

// Enricher never fails: any lookup problem yields nil.
type Enricher interface {
	Enrich(ctx context.Context, ip string) *model.Location
}

var cgnat = netip.MustParsePrefix("100.64.0.0/10")

// IsPublicIP reports whether ip is a routable unicast address worth looking up.
func IsPublicIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	switch {
	case addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsUnspecified(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast():
		return false
	}
	if addr.Is4() && cgnat.Contains(addr) {
		return false
	}
	return true
}
