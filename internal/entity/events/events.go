// Package events emits the entity change feed.
//
// A Change names what happened to which entity and who did it. Field values
// are deliberately absent: the feed carries KYC data keys, never the data.
package events

import (
	"context"
	"time"

	"kycdesk/pkg/requestcontext"
)

// Action is the kind of change.
type Action string

const (
	ActionCreated  Action = "entity.created"
	ActionUpdated  Action = "entity.updated"
	ActionSelected Action = "entity.selected"
	ActionImported Action = "entities.imported"
)

// Change is one entry of the feed.
type Change struct {
	Action    Action    `json:"action"`
	EntityID  string    `json:"entityId,omitempty"`
	Field     string    `json:"field,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
	ClientIP  string    `json:"clientIp,omitempty"`
	Client    string    `json:"client,omitempty"`
}

// NewChange stamps a change with the request metadata carried by ctx.
func NewChange(ctx context.Context, action Action, entityID string) Change {
	return Change{
		Action:    action,
		EntityID:  entityID,
		Timestamp: requestcontext.Now(ctx),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Client:    requestcontext.ClientName(ctx),
	}
}

// Publisher delivers changes. Delivery is best-effort: callers log a failed
// Publish and carry on.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	Close() error
}
