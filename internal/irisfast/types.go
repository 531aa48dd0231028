package irisfast

// Message is one inbound chat event from the Iris relay.
type Message struct {
	Room   string       `json:"room"`
	Msg    string       `json:"msg"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

// MessageJSON carries the relay's extended metadata block.
type MessageJSON struct {
	UserID string `json:"user_id,omitempty"`
}

// Config is the relay's /config response.
type Config struct {
	Port              int    `json:"port,omitempty"`
	PollingSpeed      int    `json:"polling_speed,omitempty"`
	MessageRate       int    `json:"message_rate,omitempty"`
	WebserverEndpoint string `json:"webserver_endpoint,omitempty"`
}

// ReplyRequest is the outbound /reply payload.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

type DecryptRequest struct {
	Data string `json:"data"`
}

type DecryptResponse struct {
	Decrypted string `json:"decrypted"`
}

type WebSocketState int

const (
	WSStateDisconnected WebSocketState = iota
	WSStateConnecting
	WSStateConnected
	WSStateReconnecting
	WSStateFailed
)

func (s WebSocketState) String() string {
	switch s {
	case WSStateDisconnected:
		return "disconnected"
	case WSStateConnecting:
		return "connecting"
	case WSStateConnected:
		return "connected"
	case WSStateReconnecting:
		return "reconnecting"
	case WSStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
