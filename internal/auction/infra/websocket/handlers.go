package websocket

import (
	"context"
	"encoding/json"

	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sponsorhub/bidengine/internal/auction/application"
	"github.com/sponsorhub/bidengine/internal/auction/domain"
	"github.com/sponsorhub/bidengine/internal/shared/logger"
	ws "github.com/sponsorhub/bidengine/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Gateway is the per-connection boundary: it pushes the full snapshot
// on connect and hands inbound action messages to the processor. No
// connection-level authentication happens here; identity and role are
// asserted by the client and trusted.
type Gateway struct {
	processor *application.Processor
	hub       *ws.Hub
	ctx       context.Context
}

func NewGateway(ctx context.Context, processor *application.Processor, hub *ws.Hub) *Gateway {
	return &Gateway{
		processor: processor,
		hub:       hub,
		ctx:       ctx,
	}
}

// HandleConnection serves one WebSocket connection; it returns when the
// connection closes. The first push is always the current full snapshot,
// which is also the only resync mechanism after a disconnect.
func (g *Gateway) HandleConnection(conn *fiberws.Conn) {
	client := &ws.Client{
		Hub:  g.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		ID:   uuid.NewString(),
	}
	g.hub.RegisterClient(client)

	client.Send <- g.processor.SnapshotMessage()

	go client.WritePump(g.ctx)
	client.ReadPump(g.ctx)
}

// ListenForMessages consumes the hub's inbound channel until the
// context is cancelled. Messages are handled inline, in arrival order;
// the processor's queue does the serialization.
func (g *Gateway) ListenForMessages(ctx context.Context) {
	log.Info("gateway listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("gateway stopped listening for inbound messages")
			return
		case msg := <-g.hub.InboundMessages:
			g.processMessage(msg.Client, msg.Data)
		}
	}
}

func (g *Gateway) processMessage(client *ws.Client, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		g.sendErrorToClient(client, "invalid message format")
		return
	}

	if base.Type == MessageTypeLogin {
		g.handleLogin(client, data)
		return
	}

	action, err := domain.DecodeAction(data)
	if err != nil {
		log.Info("rejected inbound message",
			zap.String("clientID", client.ID),
			zap.String("type", string(base.Type)),
			zap.Error(err),
		)
		g.sendErrorToClient(client, err.Error())
		return
	}

	g.processor.Dispatch(action)
}

func (g *Gateway) handleLogin(client *ws.Client, data []byte) {
	var msg ClientLoginMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		g.sendErrorToClient(client, "invalid login message format")
		return
	}

	user, ok := g.processor.Authenticate(msg.Username, msg.Password)
	if !ok {
		reply := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeLoginFailed}}
		reply.Payload.Error = "invalid username or password"
		g.sendToClient(client, reply)
		return
	}

	reply := ServerLoginOKMessage{BaseMessage: BaseMessage{Type: MessageTypeLoginOK}}
	reply.Payload.User = user
	g.sendToClient(client, reply)
}

func (g *Gateway) sendErrorToClient(client *ws.Client, errorMessage string) {
	msg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	msg.Payload.Error = errorMessage
	g.sendToClient(client, msg)
}

func (g *Gateway) sendToClient(client *ws.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal client reply", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full, dropping reply",
			zap.String("clientID", client.ID),
		)
	}
}
