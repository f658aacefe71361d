// Package events is a small in-process dispatcher for things that happened
// after a successful commit. Handlers run synchronously in registration
// order; anything slow (push, mail) should queue internally.
package events

import (
	"log"
	"sync"
)

const (
	MemberJoined         = "member.joined"
	MemberLeft           = "member.left"
	MemberRemoved        = "member.removed"
	MemberRoleChanged    = "member.role_changed"
	OwnershipTransferred = "vault.ownership_transferred"
	InviteCreated        = "invite.created"
	InviteRevoked        = "invite.revoked"
	MediaAdded           = "media.added"
	MediaDeleted         = "media.deleted"
	DuplicatesCleaned    = "media.duplicates_cleaned"
)

type Event struct {
	Name    string
	VaultID uint64
	ActorID uint64
	UserID  uint64 // affected user, when different from the actor
	Count   int
	Extra   map[string]string
}

type Handler func(Event)

var (
	mutex    sync.RWMutex
	handlers = map[string][]Handler{}
)

func Register(name string, handler Handler) {
	mutex.Lock()
	defer mutex.Unlock()
	handlers[name] = append(handlers[name], handler)
}

// Emit must be called after the transaction that produced the event has
// committed. A panicking handler is logged and does not stop the rest.
func Emit(event Event) {
	mutex.RLock()
	registered := handlers[event.Name]
	mutex.RUnlock()
	for _, handler := range registered {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event handler panic for %s: %v", event.Name, r)
				}
			}()
			handler(event)
		}()
	}
}
