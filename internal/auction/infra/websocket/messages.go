package websocket

import "github.com/sponsorhub/bidengine/internal/auction/domain"

// MessageType tags every message the gateway emits. Inbound messages
// are the action objects themselves (`{type, ...fields}`), plus LOGIN.
type MessageType string

const (
	MessageTypeLogin       MessageType = "LOGIN"        // inbound credential check
	MessageTypeStateUpdate MessageType = "state_update" // full snapshot push
	MessageTypeLoginOK     MessageType = "login_ok"
	MessageTypeLoginFailed MessageType = "login_failed"
	MessageTypeServerError MessageType = "server_error"
)

// BaseMessage carries the discriminator shared by all messages.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientLoginMessage is a plain equality lookup against the users list.
// It is answered privately and never mutates or broadcasts state.
type ClientLoginMessage struct {
	BaseMessage
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServerLoginOKMessage returns the matched account to the requester.
type ServerLoginOKMessage struct {
	BaseMessage
	Payload struct {
		User domain.User `json:"user"`
	} `json:"payload"`
}

// ServerErrorMessage is sent only to the offending client; rejected
// actions are otherwise observable solely through the absence of a
// state change in the next broadcast.
type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}
