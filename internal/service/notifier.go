package service

import (
	"log"
	"net/http"
	"sync"
	"time"

	"homepick/pkg/comparison"
	"homepick/pkg/customerror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NotifierService pushes comparison snapshots to every open connection of a
// browsing session, so a toggle in one tab updates the drawer in another.
type NotifierServiceI interface {
	Connect(ctx *gin.Context, sessionId uuid.UUID, state comparison.State) error
	Broadcast(sessionId uuid.UUID, state comparison.State)
	KeepAlive()
}

type NotifierService struct {
	Connections sync.Map
	Upgrader    websocket.Upgrader
	Host        string
	Port        string
}

func NewNotifierService(host string, port string) NotifierServiceI {
	return &NotifierService{
		Connections: sync.Map{},
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		Host: host,
		Port: port,
	}
}

// Connect upgrades the request and replays the current snapshot, so a new
// subscriber starts from the present state instead of waiting for the next
// mutation.
func (s *NotifierService) Connect(ctx *gin.Context, sessionId uuid.UUID, state comparison.State) error {
	connection, err := s.Upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return customerror.NewError("notifierService.Connect", s.Host+":"+s.Port, err.Error())
	}
	s.Connections.Store(connection, sessionId)
	if err := connection.WriteJSON(state); err != nil {
		connection.Close()
		s.Connections.Delete(connection)
		return customerror.NewError("notifierService.Connect", s.Host+":"+s.Port, err.Error())
	}
	go s.serveWebSocket(connection)
	return nil
}

// serveWebSocket drains the connection; subscribers never send anything
// meaningful, the read loop only detects the close.
func (s *NotifierService) serveWebSocket(connection *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in serveWebSocket: %v", r)
		}
		connection.Close()
		s.Connections.Delete(connection)
	}()
	for {
		if _, _, err := connection.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *NotifierService) Broadcast(sessionId uuid.UUID, state comparison.State) {
	s.Connections.Range(func(key, value any) bool {
		connection := key.(*websocket.Conn)
		connSession := value.(uuid.UUID)
		if connSession != sessionId {
			return true
		}
		err := connection.WriteJSON(state)
		if err != nil {
			connection.Close()
			s.Connections.Delete(connection)
		}
		return true
	})
}

func (s *NotifierService) KeepAlive() {
	var deadCandidates sync.Map
	for {
		deadCandidates.Range(func(key, value any) bool {
			if _, ok := s.Connections.Load(key); !ok {
				deadCandidates.Delete(key)
				return true
			}
			retries := value.(int)
			if retries > 10 {
				connection := key.(*websocket.Conn)
				connection.Close()
				s.Connections.Delete(connection)
				deadCandidates.Delete(connection)
				return true
			}
			deadCandidates.Store(key, retries+1)
			return true
		})
		s.Connections.Range(func(key, value any) bool {
			connection := key.(*websocket.Conn)
			err := connection.WriteMessage(websocket.PingMessage, nil)
			if err != nil {
				if _, ok := deadCandidates.Load(key); !ok {
					deadCandidates.Store(key, 1)
				}
				return true
			}
			deadCandidates.Delete(key)
			return true
		})
		time.Sleep(10 * time.Second)
	}
}
