package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemjson"
	"github.com/vango-dev/bemhtml/pkg/middleware"
)

// Message types sent after the HTML fragments of a document.
const (
	MessageDone  = "done"
	MessageError = "error"
)

// StatusMessage closes the answer to one WebSocket document.
type StatusMessage struct {
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
	Fragments int    `json:"fragments,omitempty"`
}

// handleWebSocket renders every document received on the connection.
// Text messages are decoded in the format named by the "format" query
// parameter (JSON by default); binary messages are MessagePack.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	textFormat, err := bemjson.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("B202").Wrap(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.metrics.RecordWSError("upgrade")
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.metrics.RecordWSConnect()
	defer s.metrics.RecordWSDisconnect()

	conn.SetReadLimit(s.config.MaxBodyBytes)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.metrics.RecordWSError("read")
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}

		format := textFormat
		if mt == websocket.BinaryMessage {
			format = bemjson.FormatMsgpack
		}
		if err := s.renderToSocket(r.Context(), conn, format, data); err != nil {
			s.metrics.RecordWSError("write")
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

// renderToSocket renders one document. Render errors are reported to the
// client and keep the connection open; only write errors are returned.
func (s *Server) renderToSocket(ctx context.Context, conn *websocket.Conn, format bemjson.Format, data []byte) error {
	tree, err := bemjson.Decode(format, data)
	if err != nil {
		return s.sendError(conn, errors.New("B201").Wrap(err))
	}

	ctx, span := middleware.StartSpan(ctx, "bemhtml.render",
		attribute.String("bemhtml.format", string(format)),
		attribute.String("bemhtml.transport", "websocket"))
	defer span.End()

	var (
		bytes     int64
		fragments int
		writeErr  error
	)
	flush := func(out string) string {
		if out == "" || writeErr != nil {
			return ""
		}
		if writeErr = s.writeMessage(conn, websocket.TextMessage, []byte(out)); writeErr == nil {
			bytes += int64(len(out))
			fragments++
		}
		return ""
	}

	err = s.Engine().StreamFunc(tree, flush)
	if writeErr != nil {
		middleware.RecordError(ctx, writeErr)
		return writeErr
	}
	if err != nil {
		middleware.RecordError(ctx, err)
		return s.sendError(conn, err)
	}

	s.metrics.RecordRender(bytes, fragments)
	return s.sendStatus(conn, StatusMessage{Type: MessageDone, Bytes: bytes, Fragments: fragments})
}

func (s *Server) sendError(conn *websocket.Conn, err error) error {
	e := errors.FromError(err, "B201")
	s.metrics.RecordRenderError(e.Code)
	return s.sendStatus(conn, StatusMessage{
		Type:    MessageError,
		Code:    e.Code,
		Message: e.Error(),
	})
}

func (s *Server) sendStatus(conn *websocket.Conn, msg StatusMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.writeMessage(conn, websocket.TextMessage, data)
}

func (s *Server) writeMessage(conn *websocket.Conn, messageType int, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(s.config.WSWriteTimeout))
	return conn.WriteMessage(messageType, data)
}
