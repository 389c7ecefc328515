package geo

import (
	"context"
	"net/netip"

	"shortlink/backend/internal/model"
)

type octetRange struct {
	from, to byte
	region   string
}

// Coarse registry allocation by first octet. Transfers between registries
// make this wrong for a share of addresses, hence the heuristic source tag.
var octetRegions = []octetRange{
	{1, 1, "Asia-Pacific"},
	{2, 2, "Europe"},
	{3, 4, "North America"},
	{5, 5, "Europe"},
	{6, 9, "North America"},
	{12, 13, "North America"},
	{14, 14, "Asia-Pacific"},
	{15, 20, "North America"},
	{23, 24, "North America"},
	{27, 27, "Asia-Pacific"},
	{31, 31, "Europe"},
	{36, 36, "Asia-Pacific"},
	{37, 37, "Europe"},
	{39, 39, "Asia-Pacific"},
	{41, 41, "Africa"},
	{42, 43, "Asia-Pacific"},
	{46, 46, "Europe"},
	{49, 49, "Asia-Pacific"},
	{50, 50, "North America"},
	{58, 61, "Asia-Pacific"},
	{62, 62, "Europe"},
	{63, 76, "North America"},
	{77, 95, "Europe"},
	{96, 99, "North America"},
	{101, 126, "Asia-Pacific"},
	{173, 174, "North America"},
	{175, 175, "Asia-Pacific"},
	{176, 176, "Europe"},
	{177, 177, "Latin America"},
	{178, 178, "Europe"},
	{179, 179, "Latin America"},
	{180, 183, "Asia-Pacific"},
	{184, 184, "North America"},
	{185, 185, "Europe"},
	{186, 191, "Latin America"},
	{193, 195, "Europe"},
	{196, 197, "Africa"},
	{200, 201, "Latin America"},
	{202, 203, "Asia-Pacific"},
	{204, 209, "North America"},
	{210, 211, "Asia-Pacific"},
	{212, 213, "Europe"},
	{216, 216, "North America"},
	{217, 217, "Europe"},
	{218, 223, "Asia-Pacific"},
}

// HeuristicEnricher maps IPv4 addresses to a region without any network call.
type HeuristicEnricher struct{}

func NewHeuristicEnricher() HeuristicEnricher {
	return HeuristicEnricher{}
}

func (HeuristicEnricher) Enrich(ctx context.Context, ip string) *model.Location {
	if !IsPublicIP(ip) {
		return nil
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return nil
	}
	first := addr.As4()[0]
	for _, r := range octetRegions {
		if first >= r.from && first <= r.to {
			return &model.Location{Region: r.region, Source: model.GeoSourceHeuristic}
		}
	}
	return nil
}
