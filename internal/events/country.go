package events

import (
	"log/slog"
	"net"

	"folio/internal/pkg/geoip"
)

// GetCountryFromIP resolves an IP address to an ISO country code or
// UnknownCountry. Resolution is best-effort: a missing GeoLite2 database or
// an unparseable address never fails ingestion.
func GetCountryFromIP(ipAddress string) string {
	logger := slog.Default()

	geoDB := geoip.GetGeoDB()
	if geoDB == nil {
		return UnknownCountry
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		logger.Debug("Failed to parse IP address", slog.String("ip_address", ipAddress))
		return UnknownCountry
	}

	record, err := geoDB.Country(ip)
	if err != nil {
		logger.Error("Error looking up country for IP",
			slog.String("ip_address", ipAddress),
			slog.Any("error", err))
		return UnknownCountry
	}

	if record.Country.IsoCode == "" || record.Country.IsoCode == "--" {
		return UnknownCountry
	}

	return record.Country.IsoCode
}
