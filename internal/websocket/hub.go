package websocket

import "github.com/rs/zerolog/log"

// targeted pairs a message with the username whose watchers receive it.
type targeted struct {
	username string
	data     []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Both maps are owned by the Run goroutine; every other goroutine talks to
// the hub through its channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for family-wide broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Inbound messages for a single watched user's dashboards.
	targeted chan targeted

	// A map of usernames to the set of clients watching that user's
	// completions.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		targeted:      make(chan targeted),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Dashboard client connected")
			// A client arriving with a watched user is subscribed right away.
			if client.WatchUser != "" {
				h.addSubscription(client, client.WatchUser)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.removeSubscription(client)
				client.close()
				log.Info().Int("total_clients", len(h.clients)).Msg("Dashboard client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case t := <-h.targeted:
			for client := range h.subscriptions[t.username] {
				h.deliver(client, t.data)
			}
		}
	}
}

// BroadcastTo sends a message to all clients watching a specific user.
// Safe to call from any goroutine.
func (h *Hub) BroadcastTo(username string, message []byte) {
	h.targeted <- targeted{username: username, data: message}
}

// deliver queues a message for one client, evicting clients whose send
// buffer is full. Only called from the Run goroutine.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		delete(h.clients, client)
		h.removeSubscription(client)
		client.close()
	}
}

func (h *Hub) addSubscription(client *Client, username string) {
	if h.subscriptions[username] == nil {
		h.subscriptions[username] = make(map[*Client]bool)
	}
	h.subscriptions[username][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for username, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, username)
			}
		}
	}
}
