package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"trip-claims/internal/domain/user"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/general/logger"

	gws "github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingPeriod   = 45 * time.Second
)

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocket handles driver WebSocket connections with JWT auth. Each driver
// gets at most one live connection; claim events for that driver are pushed
// on it best-effort.
type WebSocket struct {
	logger *logger.Logger
	jwtMgr *jwt.Manager

	mu          sync.Mutex
	writeLocks  sync.Map // *gws.Conn -> *sync.Mutex
	driverConns sync.Map // driverID (string) -> *gws.Conn
}

// NewWebSocket creates a WebSocket handler with JWT auth.
func NewWebSocket(logger *logger.Logger, jwtMgr *jwt.Manager) *WebSocket {
	return &WebSocket{logger: logger, jwtMgr: jwtMgr}
}

// ConnectDriver handles GET /ws/driver/{driver_id}. The token arrives via the
// Authorization header or query parameter; the path driver_id must match the
// token subject.
func (ws *WebSocket) ConnectDriver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// authenticate before upgrading
	raw, err := jwt.FromAuthorization(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	_, claims, err := ws.jwtMgr.ParseAndValidate(raw)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if err := jwt.RoleAllowed(claims, user.RoleDriver); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	driverID := r.PathValue("driver_id")
	if driverID == "" || driverID != claims.Subject {
		http.Error(w, "driver_id does not match token subject", http.StatusForbidden)
		return
	}

	// upgrade HTTP -> WS
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error(ctx, "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}

	ws.register(driverID, conn)
	ws.logger.Info(ctx, "ws_driver_connected", "Driver WebSocket connected", map[string]any{"driver_id": driverID})

	defer func() {
		ws.unregister(driverID, conn)
		ws.writeLocks.Delete(conn)
		_ = conn.Close()
		ws.logger.Info(ctx, "ws_driver_disconnected", "Driver WebSocket disconnected", map[string]any{"driver_id": driverID})
	}()

	conn.SetReadLimit(1 << 20) // 1 MiB
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// keepalive pings
	stop := make(chan struct{})
	defer close(stop)
	go ws.pingLoop(conn, stop)

	// drain client frames; the driver channel is push-only
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// IsDriverConnected reports whether the driver has a live connection.
func (ws *WebSocket) IsDriverConnected(driverID string) bool {
	_, ok := ws.driverConns.Load(driverID)
	return ok
}

// SendToDriver pushes a JSON payload to the driver's connection, if any.
// A driver without a live connection is not an error: pushes are best-effort.
func (ws *WebSocket) SendToDriver(driverID string, payload any) error {
	v, ok := ws.driverConns.Load(driverID)
	if !ok {
		return nil
	}
	conn := v.(*gws.Conn)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	mu := ws.lockFor(conn)
	mu.Lock()
	defer mu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(gws.TextMessage, body)
}

// ----- internals -----

func (ws *WebSocket) register(driverID string, conn *gws.Conn) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	// a newer connection replaces any stale one for the same driver
	if old, ok := ws.driverConns.Load(driverID); ok {
		_ = old.(*gws.Conn).Close()
	}
	ws.driverConns.Store(driverID, conn)
}

func (ws *WebSocket) unregister(driverID string, conn *gws.Conn) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	// only remove the mapping if it still points at this connection
	if cur, ok := ws.driverConns.Load(driverID); ok && cur.(*gws.Conn) == conn {
		ws.driverConns.Delete(driverID)
	}
}

func (ws *WebSocket) lockFor(conn *gws.Conn) *sync.Mutex {
	mu, _ := ws.writeLocks.LoadOrStore(conn, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (ws *WebSocket) pingLoop(conn *gws.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			mu := ws.lockFor(conn)
			mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			err := conn.WriteMessage(gws.PingMessage, nil)
			mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
