package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sseDone = "[DONE]"

// sseSink writes a chat reply as server-sent events on a gin response.
type sseSink struct {
	c *gin.Context
}

func newSSESink(c *gin.Context) *sseSink {
	return &sseSink{c: c}
}

func (s *sseSink) Open() error {
	h := s.c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.c.Status(http.StatusOK)
	s.c.Writer.WriteHeaderNow()
	s.c.Writer.Flush()
	return s.c.Request.Context().Err()
}

func (s *sseSink) write(data string) error {
	if err := s.c.Request.Context().Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	s.c.Writer.Flush()
	return nil
}

func (s *sseSink) writeJSON(v StreamChunk) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.write(string(raw))
}

func (s *sseSink) Send(chunk string) error {
	return s.writeJSON(StreamChunk{Content: chunk})
}

func (s *sseSink) Done() error {
	return s.write(sseDone)
}

func (s *sseSink) Fail(message string) error {
	return s.writeJSON(StreamChunk{Error: message})
}
