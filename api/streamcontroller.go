package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RegisterStreamRoutes registers the websocket progress stream.
func RegisterStreamRoutes(r *gin.Engine, svc *Service) {
	r.GET("/ws", func(c *gin.Context) { handleStream(c, svc) })
}

// streamRequest is one inbound websocket frame.
type streamRequest struct {
	Query string `json:"query"`
}

// handleStream serves one websocket client. The client sends {"query": ...},
// receives {"status": ...} progress frames and finally either
// {"report": ..., "status": "complete"} or {"error": ...}. Further queries
// may follow on the same connection once a run finishes.
func handleStream(c *gin.Context, svc *Service) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	out := make(chan interface{}, 32)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }
	defer closeDone()

	// Single writer goroutine; everything else sends through out.
	go func() {
		for {
			select {
			case msg := <-out:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("api: websocket write failed: %v", err)
					closeDone()
					return
				}
			case <-done:
				return
			}
		}
	}()

	send := func(msg interface{}) {
		select {
		case out <- msg:
		case <-done:
		}
	}

	for {
		var req streamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("api: websocket read failed: %v", err)
			}
			return
		}
		query := strings.TrimSpace(req.Query)
		if query == "" {
			send(gin.H{"error": "query must not be empty"})
			continue
		}

		run, err := svc.StartRun(query)
		if err != nil {
			send(gin.H{"error": err.Error()})
			continue
		}

		events, cancel := run.Bus().Subscribe()
		forwarded := make(chan struct{})
		go func() {
			defer close(forwarded)
			for ev := range events {
				send(gin.H{"status": ev.Message})
			}
		}()

		go func() {
			report, err := run.Run(context.Background())
			// Flush buffered status frames before the terminal frame.
			cancel()
			<-forwarded
			if err != nil {
				send(gin.H{"error": err.Error()})
				return
			}
			send(gin.H{"report": report, "status": "complete"})
		}()
	}
}
