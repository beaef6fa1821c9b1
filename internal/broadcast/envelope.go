package broadcast

// Envelope is the wire message sent to every client: a tagged union of
// the engine's event payloads, keyed by the event's own string name so
// clients can dispatch on Type without a second round trip.
type Envelope struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Payload any    `json:"payload"`
}
