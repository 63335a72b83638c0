// Package notify traduce notificaciones a la acción que ejecuta la UI.
package notify

import (
	"strconv"

	"hackhub-web/internal/domain"
)

type Kind string

const (
	KindFollow           Kind = "follow"
	KindLike             Kind = "like"
	KindComment          Kind = "comment"
	KindGroupInvite      Kind = "group_invite"
	KindGroupJoinRequest Kind = "group_join_request"
	KindEventUpdate      Kind = "event_update"
)

// Kinds lista todos los tipos conocidos, en orden estable.
var Kinds = []Kind{KindFollow, KindLike, KindComment, KindGroupInvite, KindGroupJoinRequest, KindEventUpdate}

type ActionKind string

const (
	ActionNavigate     ActionKind = "navigate"
	ActionAcceptInvite ActionKind = "accept_invite"
	ActionReviewJoin   ActionKind = "review_join"
	ActionOpenInbox    ActionKind = "open_inbox"
)

// Action es lo que la UI hace al abrir una notificación.
type Action struct {
	Kind ActionKind `json:"kind"`
	URL  string     `json:"url"`
}

const inboxURL = "/notifications"

type resolver func(n domain.Notification) Action

var dispatch = map[Kind]resolver{
	KindFollow:           relatedOr("/profile/", ActionNavigate),
	KindLike:             relatedOr("/posts/", ActionNavigate),
	KindComment:          relatedOr("/posts/", ActionNavigate),
	KindGroupInvite:      relatedOr("/groups/", ActionAcceptInvite),
	KindGroupJoinRequest: relatedOr("/groups/", ActionReviewJoin),
	KindEventUpdate:      relatedOr("/categories/", ActionNavigate),
}

// Resolve devuelve la acción para n. Tipos desconocidos o sin related_id
// abren la bandeja.
func Resolve(n domain.Notification) Action {
	fn, ok := dispatch[Kind(n.Type)]
	if !ok {
		return Action{Kind: ActionOpenInbox, URL: inboxURL}
	}
	return fn(n)
}

func relatedOr(prefix string, kind ActionKind) resolver {
	return func(n domain.Notification) Action {
		if n.RelatedID == nil || *n.RelatedID <= 0 {
			return Action{Kind: ActionOpenInbox, URL: inboxURL}
		}
		return Action{Kind: kind, URL: prefix + strconv.FormatInt(*n.RelatedID, 10)}
	}
}

// Item combina la notificación con su acción resuelta.
type Item struct {
	domain.Notification
	Action Action `json:"action"`
}

func Annotate(ns []domain.Notification) []Item {
	out := make([]Item, 0, len(ns))
	for _, n := range ns {
		out = append(out, Item{Notification: n, Action: Resolve(n)})
	}
	return out
}
