package invite

import (
	"encoding/json"
	"net/url"
	"strings"

	"arena/internal/social"
)

// eventParam is the wire form of Event. Fields that do not apply are null.
type eventParam struct {
	Type             EventType `json:"type"`
	Parameter        string    `json:"parameter"`
	CustomWordCount  *string   `json:"customWordCount"`
	CustomTimePeriod *string   `json:"customTimePeriod"`
	CustomDuration   *string   `json:"customDuration"`
	TimePeriod       *string   `json:"timePeriod"`
}

func toEventParam(e Event) eventParam {
	e = e.Normalize()
	p := eventParam{Type: e.Type, Parameter: e.Parameter}
	switch e.Type {
	case EventLength:
		p.TimePeriod = strPtr(e.TimePeriod)
		if e.Parameter == Custom {
			p.CustomWordCount = strPtr(e.CustomWordCount)
		}
		if e.TimePeriod == Custom {
			p.CustomTimePeriod = strPtr(e.CustomTimePeriod)
		}
	case EventTime:
		if e.Parameter == Custom {
			p.CustomDuration = strPtr(e.CustomDuration)
		}
	}
	return p
}

func (p eventParam) event() Event {
	return Event{
		Type:             p.Type,
		Parameter:        p.Parameter,
		CustomWordCount:  deref(p.CustomWordCount),
		CustomTimePeriod: deref(p.CustomTimePeriod),
		CustomDuration:   deref(p.CustomDuration),
		TimePeriod:       deref(p.TimePeriod),
	}.Normalize()
}

// EncodeQuery renders the invite query string. Keys keep a fixed order so
// links are stable.
func EncodeQuery(o Offer) string {
	parts := []string{
		"name=" + escape(o.RecipientName),
		"topics=" + escape(strings.Join(o.Topics, ",")),
		"verify=" + escape(strings.Join(o.Platforms.Strings(), ",")),
	}
	if o.Payment != nil {
		b, _ := json.Marshal(o.Payment)
		parts = append(parts, "payment="+escape(string(b)))
	}
	b, _ := json.Marshal(toEventParam(o.Event))
	parts = append(parts, "event="+escape(string(b)))
	if o.ID != "" {
		parts = append(parts, "id="+escape(o.ID))
	}
	return strings.Join(parts, "&")
}

// EncodeURL returns base/invite/<inviter>?<query>
func EncodeURL(base string, o Offer) string {
	return strings.TrimRight(base, "/") + "/invite/" + url.PathEscape(o.Inviter) + "?" + EncodeQuery(o)
}

// Decode parses a full invite link
func Decode(raw string) (Offer, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Offer{}, err
	}
	inviter := ""
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "invite" {
			inviter, _ = url.PathUnescape(segments[i+1])
		}
	}
	return DecodeQuery(inviter, u.Query()), nil
}

// DecodeQuery rebuilds an offer from invite query parameters. Missing or
// malformed values fall back to empty defaults.
func DecodeQuery(inviter string, q url.Values) Offer {
	o := Offer{
		ID:            q.Get("id"),
		Inviter:       inviter,
		RecipientName: strings.TrimSpace(q.Get("name")),
		Topics:        NewTopicList(splitList(q.Get("topics"))...).Items(),
		Platforms:     social.ParseSet(splitList(q.Get("verify"))),
	}

	if raw := q.Get("payment"); raw != "" {
		var p Payment
		if decodeJSONParam(raw, &p) && (p.Amount != "" || p.Method != "") {
			o.Payment = &p
		}
	}
	if raw := q.Get("event"); raw != "" {
		var p eventParam
		if decodeJSONParam(raw, &p) {
			o.Event = p.event()
		}
	}
	return o
}

// RegistrationURL is where a recipient lands after accepting an invite
func RegistrationURL(base string, o Offer) string {
	parts := []string{
		"name=" + escape(o.RecipientName),
		"topics=" + escape(strings.Join(o.Topics, ",")),
		"verify=" + escape(strings.Join(o.Platforms.Strings(), ",")),
		"invitedBy=" + escape(o.Inviter),
		"isInvitation=true",
	}
	return strings.TrimRight(base, "/") + "/register?" + strings.Join(parts, "&")
}

// decodeJSONParam accepts values that were percent-encoded once or twice
func decodeJSONParam(raw string, v interface{}) bool {
	if json.Unmarshal([]byte(raw), v) == nil {
		return true
	}
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(unescaped), v) == nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func strPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
