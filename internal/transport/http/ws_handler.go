package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"samskrtam-drill/internal/app"
	"samskrtam-drill/internal/cue"
	"samskrtam-drill/internal/logger"
	"samskrtam-drill/internal/practice"
)

// writeWait bounds every frame write so a client that stops reading cannot
// hold the connection open.
const writeWait = 10 * time.Second

type WSHandler struct {
	service   *app.DrillService
	log       *logger.Logger
	writeWait time.Duration
	upgrader  websocket.Upgrader
}

func NewWSHandler(service *app.DrillService, log *logger.Logger) *WSHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WSHandler{
		service:   service,
		log:       log,
		writeWait: writeWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type openPayload struct {
	LessonID string `json:"lessonId"`
}

type textPayload struct {
	Text string `json:"text"`
}

type practicePayload struct {
	Mode string `json:"mode"`
}

type reviewPayload struct {
	Direction string `json:"direction"`
}

type resultPayload struct {
	app.Result
	Session app.View `json:"session"`
}

// practiceQuestion omits the answer until the learner has replied.
type practiceQuestion struct {
	Mode    string   `json:"mode"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type practiceResult struct {
	Correct bool           `json:"correct"`
	Answer  string         `json:"answer"`
	Tally   practice.Tally `json:"tally"`
}

type reviewCard struct {
	app.Card
	Position int `json:"position"`
	Total    int `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection is the per-socket state: one drill session, one practice drill
// and one review deck.
type connection struct {
	session *app.Session
	drill   *practice.Drill
	deck    *app.ReviewDeck
	answer  string
	send    chan<- outboundMessage[any]
	// done is closed once the writer has stopped; sends after that are dropped.
	done <-chan struct{}
}

// ServeWS upgrades HTTP requests to websockets and runs one drill session per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	cues := make(chan cue.Cue, 32)
	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	cuesDone := make(chan struct{})

	c := &connection{
		session: h.service.NewSession(cue.ChannelSink(cues)),
		drill:   h.service.NewPracticeDrill(),
		send:    send,
		done:    writerDone,
	}
	log := h.log.With("session_id", c.session.ID())
	log.Info("ws connected")

	// single writer: every outbound frame goes through send
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", "error", err)
				// unblocks ReadJSON so the read loop ends too
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(cuesDone)
		for {
			select {
			case cu := <-cues:
				select {
				case send <- outboundMessage[any]{Type: "cue", Payload: cu}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	c.emit("session", c.session.View())
	c.emit("progress", h.service.Progress())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.handle(r, c, inbound)
	}

	close(closeSignals)
	<-cuesDone
	close(send)
	<-writerDone
	log.Info("ws disconnected")
}

func (h *WSHandler) handle(r *http.Request, c *connection, inbound inboundMessage) {
	ctx := r.Context()
	switch inbound.Type {
	case "open":
		var payload openPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.fail("invalid open payload")
			return
		}
		if err := c.session.OpenLesson(payload.LessonID); err != nil {
			c.fail(err.Error())
			return
		}
		c.emit("session", c.session.View())

	case "select":
		var payload textPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.fail("invalid select payload")
			return
		}
		res, err := c.session.SelectOption(ctx, payload.Text)
		h.reply(c, res, err)

	case "confirm":
		res, err := c.session.Confirm(ctx)
		h.reply(c, res, err)

	case "advance":
		res, err := c.session.Advance(ctx)
		h.reply(c, res, err)

	case "cancel":
		if err := c.session.Cancel(); err != nil {
			c.fail(err.Error())
			return
		}
		c.emit("session", c.session.View())

	case "abandon":
		if err := c.session.Abandon(); err != nil {
			c.fail(err.Error())
			return
		}
		c.emit("session", c.session.View())

	case "view":
		c.emit("session", c.session.View())

	case "practice":
		var payload practicePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.fail("invalid practice payload")
			return
		}
		mode, err := practice.ParseMode(payload.Mode)
		if err != nil {
			c.fail(err.Error())
			return
		}
		q, err := c.drill.Next(mode, h.service.PracticePool())
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.answer = q.Correct
		c.emit("practice", practiceQuestion{Mode: q.Mode, Prompt: q.Prompt, Options: q.Options})

	case "practiceAnswer":
		var payload textPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.fail("invalid practiceAnswer payload")
			return
		}
		correct, err := c.drill.Answer(payload.Text)
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.emit("practiceResult", practiceResult{Correct: correct, Answer: c.answer, Tally: c.drill.Tally()})

	case "review":
		var payload reviewPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.fail("invalid review payload")
				return
			}
		}
		if c.deck == nil {
			c.deck = h.service.ReviewDeck()
		}
		var (
			card app.Card
			ok   bool
		)
		switch payload.Direction {
		case "next":
			card, ok = c.deck.Next()
		case "prev":
			card, ok = c.deck.Prev()
		default:
			card, ok = c.deck.Current()
		}
		if !ok {
			c.fail("no cards to review")
			return
		}
		c.emit("review", reviewCard{Card: card, Position: c.deck.Position(), Total: c.deck.Len()})

	default:
		c.fail("unsupported message type")
	}
}

func (h *WSHandler) reply(c *connection, res app.Result, err error) {
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.emit("result", resultPayload{Result: res, Session: c.session.View()})
	if res.Awarded > 0 || res.Finished {
		c.emit("progress", h.service.Progress())
	}
}

func (c *connection) emit(typ string, payload any) {
	select {
	case c.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-c.done:
	}
}

func (c *connection) fail(message string) {
	c.emit("error", errorPayload{Message: message})
}
