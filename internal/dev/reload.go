package dev

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/bemhtml/internal/errors"
)

// Message types pushed to connected browsers.
const (
	MessageReload = "reload"
	MessagePage   = "page"
	MessageCSS    = "css"
	MessageError  = "error"
	MessageClear  = "clear"
)

// Message is a live reload event, sent as a JSON text frame.
type Message struct {
	Type string `json:"type"`

	// Page is the changed file name inside the pages directory.
	Page string `json:"page,omitempty"`

	// File is the changed stylesheet, or where a failed load stopped.
	File string `json:"file,omitempty"`

	// Code and Error describe a failed template load.
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	clientBuffer = 16
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

// ReloadServer pushes reload events to browsers over WebSocket. It is
// mounted by the preview server when watching is enabled.
type ReloadServer struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*reloadClient]struct{}

	// failure is the last error event. Browsers that connect while it is
	// set receive it straight away, so a reload does not hide the overlay.
	failure []byte
}

// NewReloadServer creates a reload server. A nil checkOrigin accepts any
// origin.
func NewReloadServer(checkOrigin func(*http.Request) bool) *ReloadServer {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &ReloadServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[*reloadClient]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the client registered until
// its connection fails.
func (r *ReloadServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	c := &reloadClient{
		conn: conn,
		send: make(chan []byte, clientBuffer),
		done: make(chan struct{}),
	}

	r.mu.Lock()
	r.clients[c] = struct{}{}
	if r.failure != nil {
		c.enqueue(r.failure)
	}
	r.mu.Unlock()

	go c.writeLoop()

	// Browsers never send anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	r.drop(c)
}

// NotifyReload asks every browser for a full reload.
func (r *ReloadServer) NotifyReload() {
	r.broadcast(Message{Type: MessageReload})
}

// NotifyPage reloads only the browsers showing the given page file.
func (r *ReloadServer) NotifyPage(name string) {
	r.broadcast(Message{Type: MessagePage, Page: name})
}

// NotifyCSS asks browsers to refetch their stylesheets.
func (r *ReloadServer) NotifyCSS(file string) {
	r.broadcast(Message{Type: MessageCSS, File: file})
}

// NotifyError shows err in the browser overlay until ClearError.
func (r *ReloadServer) NotifyError(err error) {
	if err == nil {
		return
	}
	e := errors.FromError(err, "B103")
	msg := Message{Type: MessageError, Code: e.Code, Error: e.FormatCompact()}
	if e.Location != nil {
		msg.File = e.Location.String()
	}
	r.broadcast(msg)
}

// ClearError removes the overlay and forgets the pending error.
func (r *ReloadServer) ClearError() {
	r.broadcast(Message{Type: MessageClear})
}

func (r *ReloadServer) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg.Type {
	case MessageError:
		r.failure = data
	case MessageClear:
		r.failure = nil
	}
	for c := range r.clients {
		if !c.enqueue(data) {
			delete(r.clients, c)
			c.close()
		}
	}
}

func (r *ReloadServer) drop(c *reloadClient) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
	c.close()
}

// ClientCount returns the number of connected browsers.
func (r *ReloadServer) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Close disconnects every browser.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.close()
	}
	r.clients = make(map[*reloadClient]struct{})
	r.failure = nil
}

// Script returns the browser client that connects to socketPath.
func (r *ReloadServer) Script(socketPath string) string {
	path, _ := json.Marshal(socketPath)
	return strings.Replace(clientScript, "__SOCKET_PATH__", string(path), 1)
}

// reloadClient is one browser connection. Only writeLoop writes to conn.
type reloadClient struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// enqueue never blocks. A browser that falls a full buffer behind is
// dropped and reconnects on its own.
func (c *reloadClient) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *reloadClient) writeLoop() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *reloadClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

const clientScript = `(function () {
  'use strict';

  var OVERLAY = 'bemhtml-error-overlay';
  var delay = 500;

  function currentPage() {
    var m = location.pathname.match(/^\/pages\/([^\/]+)$/);
    return m ? decodeURIComponent(m[1]) : null;
  }

  function samePage(file) {
    var page = currentPage();
    if (page === null) return false;
    return page === file || page === file.replace(/\.[^.]+$/, '');
  }

  function refreshStyles() {
    document.querySelectorAll('link[rel="stylesheet"]').forEach(function (link) {
      var url = new URL(link.href);
      url.searchParams.set('_t', Date.now());
      link.href = url.toString();
    });
  }

  function showError(msg) {
    hideError();
    var box = document.createElement('pre');
    box.id = OVERLAY;
    box.style.cssText = 'position:fixed;inset:0;margin:0;padding:24px;z-index:2147483647;' +
      'background:rgba(20,20,20,0.94);color:#f55;font:14px/1.5 monospace;white-space:pre-wrap;overflow:auto;';
    box.textContent = msg.error;
    document.body.appendChild(box);
  }

  function hideError() {
    var box = document.getElementById(OVERLAY);
    if (box) box.remove();
  }

  var handlers = {
    reload: function () { location.reload(); },
    page: function (msg) { if (samePage(msg.page)) location.reload(); },
    css: refreshStyles,
    error: showError,
    clear: hideError
  };

  function connect() {
    var scheme = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(scheme + '//' + location.host + __SOCKET_PATH__);

    ws.onopen = function () { delay = 500; };
    ws.onmessage = function (e) {
      var msg;
      try { msg = JSON.parse(e.data); } catch (err) { return; }
      var handle = handlers[msg.type];
      if (handle) handle(msg);
    };
    ws.onclose = function () {
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 10000);
    };
  }

  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', connect);
  } else {
    connect();
  }
})();
`
