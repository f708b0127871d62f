package socket

import "log"

// Broadcaster provides high-level methods for broadcasting marketplace events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Lead Broadcasting
// ============================================

// BroadcastLeadCreated tells every browsing client a new lead is available.
// The payload is the redacted summary shape; contact details never go out on
// the broadcast channel.
func (b *Broadcaster) BroadcastLeadCreated(lead map[string]interface{}) {
	b.hub.Broadcast(MessageLeadCreated, lead)
}

// BroadcastLeadPurchased tells browsing clients to drop a lead from the
// available view. Only the lead id goes out; the buyer stays private.
func (b *Broadcaster) BroadcastLeadPurchased(leadID string) {
	log.Printf("📡 BroadcastLeadPurchased: leadId=%s", leadID)
	b.hub.Broadcast(MessageLeadPurchased, map[string]interface{}{
		"leadId": leadID,
	})
}

// SendLeadStatusChanged notifies the owning user's other sessions of a status
// change on one of their purchased leads.
func (b *Broadcaster) SendLeadStatusChanged(ownerID, leadID, status string) {
	b.hub.SendToUser(ownerID, MessageLeadStatusChanged, map[string]interface{}{
		"leadId": leadID,
		"status": status,
	})
}

// ============================================
// Purchase Broadcasting
// ============================================

// SendPurchaseConfirmed notifies the buyer that their purchase committed.
func (b *Broadcaster) SendPurchaseConfirmed(userID, leadID string) {
	b.hub.SendToUser(userID, MessagePurchaseConfirmed, map[string]interface{}{
		"leadId": leadID,
	})
}
