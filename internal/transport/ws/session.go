package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"employercheck/internal/eligibility"
	"employercheck/internal/model"
)

// SetAnswerPayload is the body of a set_answer message. A null value
// clears the answer.
type SetAnswerPayload struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// MovePayload is the body of a move message
type MovePayload struct {
	Delta int `json:"delta"`
}

// ErrorPayload is the body of an error message
type ErrorPayload struct {
	Message string                   `json:"message"`
	Fields  []eligibility.FieldError `json:"fields,omitempty"`
}

type hintsResult struct {
	req eligibility.HintsRequest
	def *model.InterviewDefinition
	err error
}

// session owns one connection's Interview. Only run touches it; hint
// fetches report back through the hints channel.
type session struct {
	h     *Handler
	conn  *Connection
	inbox chan Message
	hints chan hintsResult
	log   *slog.Logger
}

func (s *session) run(iv *eligibility.Interview, pending *eligibility.HintsRequest) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.h.hub.Unregister(s.conn)
	}()

	if pending != nil {
		s.fetch(ctx, *pending)
	}
	s.sendState(iv)

	for {
		select {
		case <-s.conn.Done():
			return

		case msg, ok := <-s.inbox:
			if !ok {
				return
			}
			s.handle(ctx, iv, msg)

		case res := <-s.hints:
			if res.err != nil {
				s.log.Warn("hints fetch failed", "jurisdiction", res.req.Jurisdiction, "error", res.err)
				s.sendError(res.err)
				continue
			}
			if !iv.ApplyHints(res.req, *res.def) {
				s.log.Debug("dropping stale hints",
					"requested", res.req.Jurisdiction,
					"generation", res.req.Generation,
					"current", iv.Jurisdiction(),
				)
				continue
			}
			s.sendState(iv)
			s.saveDraft(ctx, iv)
		}
	}
}

func (s *session) handle(ctx context.Context, iv *eligibility.Interview, msg Message) {
	switch msg.Type {
	case MsgSetAnswer:
		var p SetAnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.send(MsgError, ErrorPayload{Message: "invalid set_answer payload"})
			return
		}
		req, err := iv.SetAnswer(p.Key, p.Value)
		if err != nil {
			s.sendError(err)
			return
		}
		if req != nil {
			s.fetch(ctx, *req)
		}
		s.sendState(iv)
		s.saveDraft(ctx, iv)

	case MsgMove:
		var p MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.send(MsgError, ErrorPayload{Message: "invalid move payload"})
			return
		}
		iv.Move(p.Delta)
		s.sendState(iv)
		s.saveDraft(ctx, iv)

	case MsgSubmit:
		s.submit(ctx, iv)

	default:
		s.send(MsgError, ErrorPayload{Message: "unknown message type"})
	}
}

func (s *session) submit(ctx context.Context, iv *eligibility.Interview) {
	if iv.Loading() {
		s.send(MsgError, ErrorPayload{Message: "questions are still loading"})
		return
	}
	if missing := iv.MissingRequired(); len(missing) > 0 {
		fields := make([]eligibility.FieldError, 0, len(missing))
		for _, key := range missing {
			fields = append(fields, eligibility.FieldError{Key: key, Message: "answer is required"})
		}
		s.send(MsgError, ErrorPayload{Message: "interview is incomplete", Fields: fields})
		return
	}

	a, err := s.h.evaluations.SubmitForSession(ctx, s.conn.SessionID, iv.Payload())
	if err != nil {
		s.sendError(err)
		return
	}
	s.send(MsgAssessment, a)
	if len(a.MissingInputs) == 0 {
		s.h.interviews.DiscardDraft(ctx, s.conn.SessionID)
	}
}

// fetch loads hints in the background. The result is tagged with req so a
// reply for an abandoned jurisdiction is recognized by ApplyHints.
func (s *session) fetch(ctx context.Context, req eligibility.HintsRequest) {
	go func() {
		def, err := s.h.interviews.Definition(ctx, req.Jurisdiction)
		select {
		case s.hints <- hintsResult{req: req, def: def, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *session) saveDraft(ctx context.Context, iv *eligibility.Interview) {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := s.h.interviews.SaveDraft(ctx, s.conn.SessionID, iv); err != nil {
		s.log.Warn("draft save failed", "error", err)
	}
}

func (s *session) sendState(iv *eligibility.Interview) {
	s.send(MsgState, iv.State())
}

func (s *session) sendError(err error) {
	var verr *eligibility.ValidationError
	if errors.As(err, &verr) {
		s.send(MsgError, ErrorPayload{Message: "invalid answers", Fields: verr.Fields})
		return
	}
	s.log.Error("interview request failed", "error", err)
	s.send(MsgError, ErrorPayload{Message: "internal error"})
}

func (s *session) send(msgType MessageType, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal message", "type", msgType, "error", err)
		return
	}
	data, _ := json.Marshal(Message{Type: msgType, Payload: body})
	select {
	case s.conn.Send <- data:
	default:
		s.log.Warn("send buffer full, dropping message", "type", msgType)
	}
}
