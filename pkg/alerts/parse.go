package alerts

import (
	"strings"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

// ParseAlerts converts the alert entities of a feed into service alert
// records. Entities without an alert payload or an id are skipped.
func ParseAlerts(entities []*gtfs.FeedEntity, now time.Time) []transit.ServiceAlert {
	var serviceAlerts []transit.ServiceAlert

	for _, entity := range entities {
		alert := entity.GetAlert()
		if alert == nil || entity.GetId() == "" {
			continue
		}

		routeIDs, stopIDs := informedIdentifiers(alert)

		serviceAlerts = append(serviceAlerts, transit.ServiceAlert{
			PrimaryIdentifier:    entity.GetId(),
			ModificationDateTime: now,
			HeaderText:           translatedText(alert.GetHeaderText()),
			DescriptionText:      translatedText(alert.GetDescriptionText()),
			Effect:               alert.GetEffect().String(),
			Cause:                alert.GetCause().String(),
			RouteIDs:             routeIDs,
			StopIDs:              stopIDs,
			UpdatedAt:            now.Unix(),
		})
	}

	return serviceAlerts
}

// informedIdentifiers collects the affected route and stop ids, uppercased
// and deduplicated, preserving first appearance order.
func informedIdentifiers(alert *gtfs.Alert) ([]string, []string) {
	var routeIDs []string
	var stopIDs []string
	seenRoutes := map[string]bool{}
	seenStops := map[string]bool{}

	for _, informedEntity := range alert.GetInformedEntity() {
		if routeID := strings.ToUpper(informedEntity.GetRouteId()); routeID != "" && !seenRoutes[routeID] {
			seenRoutes[routeID] = true
			routeIDs = append(routeIDs, routeID)
		}

		if stopID := strings.ToUpper(informedEntity.GetStopId()); stopID != "" && !seenStops[stopID] {
			seenStops[stopID] = true
			stopIDs = append(stopIDs, stopID)
		}
	}

	return routeIDs, stopIDs
}

func translatedText(translated *gtfs.TranslatedString) string {
	translations := translated.GetTranslation()
	if len(translations) == 0 {
		return ""
	}

	return translations[0].GetText()
}
