package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jbeda/geom"

	"hypertile/view"
)

const writeWait = 10 * time.Second

// Message is a client request on the WebSocket.
//
//	{"type":"pan","x0":..,"y0":..,"x1":..,"y1":..}
//	{"type":"reset"}
//	{"type":"resize","w":..,"h":..}
type Message struct {
	Type string  `json:"type"`
	X0   float64 `json:"x0,omitempty"`
	Y0   float64 `json:"y0,omitempty"`
	X1   float64 `json:"x1,omitempty"`
	Y1   float64 `json:"y1,omitempty"`
	W    int     `json:"w,omitempty"`
	H    int     `json:"h,omitempty"`
}

// Drag returns the gesture of a pan message.
func (m Message) Drag() view.Drag {
	return view.Drag{
		Start: geom.Coord{X: m.X0, Y: m.Y0},
		End:   geom.Coord{X: m.X1, Y: m.Y1},
	}
}

// handleWS runs one viewing session. Every message that changes the view
// marks a frame pending; the write loop sends one binary PNG per pending
// frame, so a burst of pans arriving while a frame is drawn produces a
// single follow-up frame.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	s.metrics.sessions.Inc()
	defer s.metrics.sessions.Dec()

	sess := s.newSession(req)
	log := s.log.With("remote", r.RemoteAddr, "scene", req.scene.Name)
	log.Info("ws session opened")
	defer log.Info("ws session closed")

	kick := make(chan struct{}, 1)
	kick <- struct{}{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readLoop(conn, sess, kick)
	}()

	for {
		select {
		case <-done:
			return
		case <-s.closing:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-kick:
			if err := s.sendFrame(conn, sess); err != nil {
				log.Warn("ws write failed", "err", err)
				return
			}
		}
	}
}

func (s *Server) readLoop(conn *websocket.Conn, sess *view.Session, kick chan<- struct{}) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("ws read", "err", err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("ws: bad message", "err", err)
			continue
		}
		switch msg.Type {
		case "pan":
			d := msg.Drag()
			if err := sess.Pan(d.Start, d.End); err != nil {
				s.metrics.PanDropped()
				continue
			}
		case "reset":
			sess.Reset()
		case "resize":
			if msg.W <= 0 || msg.W > MaxCanvas || msg.H <= 0 || msg.H > MaxCanvas {
				s.log.Debug("ws: bad resize", "w", msg.W, "h", msg.H)
				continue
			}
			sess.Resize(msg.W, msg.H)
		default:
			s.log.Debug("ws: unknown message", "type", msg.Type)
			continue
		}
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

// sendFrame draws and sends the pending frame, if any. A frame that fails
// to draw is logged by the session and skipped.
func (s *Server) sendFrame(conn *websocket.Conn, sess *view.Session) error {
	if !sess.Pending() {
		return nil
	}
	var buf bytes.Buffer
	if err := renderPNG(&buf, sess); err != nil {
		return nil
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.BinaryMessage, buf.Bytes())
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>hypertile</title>
<style>body{margin:0;background:#222}img{display:block;margin:auto;cursor:grab;touch-action:none}</style>
</head>
<body>
<img id="frame" draggable="false" />
<script>
const img = document.getElementById("frame");
const params = new URLSearchParams(location.search);
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws?" + params);
ws.binaryType = "blob";
ws.onmessage = (e) => {
  const old = img.src;
  img.src = URL.createObjectURL(e.data);
  if (old) URL.revokeObjectURL(old);
};
let last = null;
img.onmousedown = (e) => { last = [e.offsetX, e.offsetY]; };
window.onmouseup = () => { last = null; };
img.onmousemove = (e) => {
  if (!last) return;
  ws.send(JSON.stringify({type: "pan", x0: last[0], y0: last[1], x1: e.offsetX, y1: e.offsetY}));
  last = [e.offsetX, e.offsetY];
};
let touchID = null;
const touchAt = (t) => {
  const r = img.getBoundingClientRect();
  return [t.clientX - r.left, t.clientY - r.top];
};
img.addEventListener("touchstart", (e) => {
  if (touchID !== null) return;
  const t = e.changedTouches[0];
  touchID = t.identifier;
  last = touchAt(t);
  e.preventDefault();
}, {passive: false});
img.addEventListener("touchmove", (e) => {
  for (const t of e.changedTouches) {
    if (t.identifier !== touchID) continue;
    const p = touchAt(t);
    ws.send(JSON.stringify({type: "pan", x0: last[0], y0: last[1], x1: p[0], y1: p[1]}));
    last = p;
  }
  e.preventDefault();
}, {passive: false});
const touchEnd = (e) => {
  for (const t of e.changedTouches) {
    if (t.identifier === touchID) { touchID = null; last = null; }
  }
};
img.addEventListener("touchend", touchEnd);
img.addEventListener("touchcancel", touchEnd);
window.onkeydown = (e) => { if (e.key === "r") ws.send(JSON.stringify({type: "reset"})); };
</script>
</body>
</html>
`
