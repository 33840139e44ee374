package invite

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"arena/internal/social"
)

func TestURLRoundTrip(t *testing.T) {
	offers := []Offer{
		{
			Inviter:       "gaurab",
			RecipientName: "Sam Altman",
			Topics:        []string{"AI safety", "Open source & models"},
			Platforms:     social.Set{social.Twitter, social.YouTube},
			Event:         Event{Type: EventLength, Parameter: Custom, CustomWordCount: "750", TimePeriod: "3"},
			Payment:       &Payment{Amount: "100.50", Method: MethodCrypto},
		},
		{
			Inviter:       "samc",
			RecipientName: "Ada",
			Topics:        []string{"Intro"},
			Platforms:     social.Set{},
			Event:         Event{Type: EventTime, Parameter: Custom, CustomDuration: "45"},
		},
		{
			ID:            "0b6a3c1e-0000-4000-8000-000000000001",
			Inviter:       "samc",
			RecipientName: "Émile = ?",
			Topics:        []string{"Ünïcode"},
			Platforms:     social.Set{social.LinkedIn},
		},
	}

	for _, o := range offers {
		got, err := Decode(EncodeURL("https://arena.example", o))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.Inviter != o.Inviter || got.RecipientName != o.RecipientName || got.ID != o.ID {
			t.Errorf("identity mismatch: %+v vs %+v", got, o)
		}
		if !reflect.DeepEqual(got.Topics, o.Topics) {
			t.Errorf("topics %v, want %v", got.Topics, o.Topics)
		}
		if len(got.Platforms) != len(o.Platforms) || (len(o.Platforms) > 0 && !reflect.DeepEqual(got.Platforms, o.Platforms)) {
			t.Errorf("platforms %v, want %v", got.Platforms, o.Platforms)
		}
		if got.Event != o.Event.Normalize() {
			t.Errorf("event %+v, want %+v", got.Event, o.Event)
		}
		if !reflect.DeepEqual(got.Payment, o.Payment) {
			t.Errorf("payment %+v, want %+v", got.Payment, o.Payment)
		}
	}
}

func TestEncodeQueryUsesNullForInapplicableEventFields(t *testing.T) {
	q := EncodeQuery(Offer{RecipientName: "x", Topics: []string{"t"}, Event: Event{Type: EventLength, Parameter: "500", TimePeriod: "3"}})
	values, err := url.ParseQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"length","parameter":"500","customWordCount":null,"customTimePeriod":null,"customDuration":null,"timePeriod":"3"}`
	if got := values.Get("event"); got != want {
		t.Errorf("event param %s, want %s", got, want)
	}
}

func TestDecodeToleratesMalformedInput(t *testing.T) {
	q := url.Values{}
	q.Set("name", "Sam")
	q.Set("topics", "A,,B, ,A")
	q.Set("verify", "linkedin,myspace,,twitter")
	q.Set("payment", "{not json")
	q.Set("event", "%7Bbroken")

	o := DecodeQuery("gaurab", q)
	if !reflect.DeepEqual(o.Topics, []string{"A", "B"}) {
		t.Errorf("topics %v", o.Topics)
	}
	if !reflect.DeepEqual(o.Platforms, social.Set{social.LinkedIn, social.Twitter}) {
		t.Errorf("platforms %v", o.Platforms)
	}
	if o.Payment != nil {
		t.Errorf("malformed payment should be dropped, got %+v", o.Payment)
	}
	if o.Event != (Event{}) {
		t.Errorf("malformed event should be empty, got %+v", o.Event)
	}
}

func TestDecodeAcceptsDoubleEncodedJSON(t *testing.T) {
	raw := "https://arena.example/invite/gaurab?name=Sam&topics=A&verify=&payment=" +
		url.QueryEscape(url.QueryEscape(`{"amount":"50","method":"paypal"}`))
	o, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if o.Payment == nil || o.Payment.Amount != "50" || o.Payment.Method != MethodPayPal {
		t.Errorf("unexpected payment %+v", o.Payment)
	}
}

func TestDecodeEmptyPayment(t *testing.T) {
	for _, raw := range []string{"null", "{}", `{"amount":"","method":""}`} {
		q := url.Values{}
		q.Set("payment", raw)
		if o := DecodeQuery("gaurab", q); o.Payment != nil {
			t.Errorf("payment=%s decoded to %+v, want nil", raw, o.Payment)
		}
	}
}

func TestDecodeMissingParams(t *testing.T) {
	o, err := Decode("https://arena.example/invite/gaurab")
	if err != nil {
		t.Fatal(err)
	}
	if o.Inviter != "gaurab" || o.RecipientName != "" || len(o.Topics) != 0 || o.Payment != nil {
		t.Errorf("unexpected offer %+v", o)
	}
}

func TestRegistrationURL(t *testing.T) {
	o := Offer{
		Inviter:       "gaurab",
		RecipientName: "Sam Altman",
		Topics:        []string{"AI", "Text"},
		Platforms:     social.Set{social.Twitter},
	}
	got := RegistrationURL("https://arena.example", o)
	want := "https://arena.example/register?name=Sam%20Altman&topics=AI%2CText&verify=twitter&invitedBy=gaurab&isInvitation=true"
	if got != want {
		t.Errorf("RegistrationURL() = %s, want %s", got, want)
	}
	if !strings.Contains(got, "isInvitation=true") {
		t.Error("missing invitation flag")
	}
}

func BenchmarkEncodeDecode(b *testing.B) {
	o := Offer{
		Inviter:       "gaurab",
		RecipientName: "Sam Altman",
		Topics:        []string{"AI safety", "Future of Text", "Open source"},
		Platforms:     social.Set{social.Twitter, social.LinkedIn},
		Event:         Event{Type: EventLength, Parameter: "500", TimePeriod: "3"},
		Payment:       &Payment{Amount: "100", Method: MethodStripe},
	}
	for i := 0; i < b.N; i++ {
		if _, err := Decode(EncodeURL("https://arena.example", o)); err != nil {
			b.Fatal(err)
		}
	}
}
