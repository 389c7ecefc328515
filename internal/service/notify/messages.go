package notify

import (
	"fmt"
	"time"

	"shortlink/backend/internal/model"
)

// ClickMessage describes a resolution of link for its owner. loc may be nil.
func ClickMessage(link model.ShortLink, click model.ClickEvent, loc *model.Location) model.NotificationMessage {
	payload := map[string]any{
		"linkId":    fmt.Sprintf("%d", link.ID),
		"code":      link.ResolvedCode(),
		"timestamp": click.Timestamp.UTC().Format(time.RFC3339),
		"referer":   click.Referer,
		"userAgent": click.UserAgent,
	}
	where := ""
	if loc != nil {
		payload["country"] = loc.Country
		payload["city"] = loc.City
		payload["region"] = loc.Region
		payload["geoSource"] = loc.Source
		switch {
		case loc.City != "" && loc.Country != "":
			where = fmt.Sprintf(" from %s, %s", loc.City, loc.Country)
		case loc.Country != "":
			where = " from " + loc.Country
		case loc.Region != "":
			where = " from " + loc.Region
		}
	}
	return model.NotificationMessage{
		Type:    model.NotificationLinkClick,
		Title:   "New click",
		Message: fmt.Sprintf("/%s was opened%s", link.ResolvedCode(), where),
		Payload: payload,
	}
}
