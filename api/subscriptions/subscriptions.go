// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

var logger = log.WithContext("pkg", "subscriptions")

type msgReader interface {
	Read() ([]any, error)
}

type Subscriptions struct {
	backtraceLimit uint32
	ledger         *ledger.Ledger
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
	closeOnce      sync.Once
}

// New creates the subscriptions api. Subscribers may start at most
// backtraceLimit blocks or epochs behind the head.
func New(l *ledger.Ledger, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		ledger:         l,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.ContainsFunc(allowedOrigins, func(allowed string) bool {
					return allowed == "*" || strings.EqualFold(allowed, origin)
				})
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) checkBacktrace(pos, head uint64) error {
	if pos > head+1 {
		return utils.BadRequest(errors.New("pos: beyond head"))
	}
	if s.backtraceLimit > 0 && head-min(pos, head) > uint64(s.backtraceLimit) {
		return utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return nil
}

func (s *Subscriptions) handleCheckpointReader(req *http.Request) (msgReader, error) {
	r, err := s.ledger.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Release()

	last, err := r.Epoch()
	if err != nil {
		return nil, err
	}
	pos, ok, err := utils.ParseUint("pos", req.URL.Query().Get("pos"), 64)
	if err != nil {
		return nil, err
	}
	if !ok {
		pos = last + 1
	}
	if err := s.checkBacktrace(pos, last); err != nil {
		return nil, err
	}
	return newPointReader(s.ledger, pos), nil
}

func (s *Subscriptions) handleReceiptReader(req *http.Request) (msgReader, error) {
	head := uint64(s.ledger.Head().Number)
	pos, ok, err := utils.ParseUint("pos", req.URL.Query().Get("pos"), 32)
	if err != nil {
		return nil, err
	}
	if !ok {
		pos = head + 1
	}
	if err := s.checkBacktrace(pos, head); err != nil {
		return nil, err
	}
	return newReceiptReader(s.ledger, uint32(pos)), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	switch mux.Vars(req)["subject"] {
	case "checkpoint":
		reader, err = s.handleCheckpointReader(req)
	case "receipt":
		reader, err = s.handleReceiptReader(req)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug("failed to close websocket", "err", err)
		}
	}()

	if err := s.pipe(conn, reader); err != nil {
		logger.Debug("error in websocket", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader) error {
	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()

	ticker := s.ledger.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		msgs, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}

		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		case <-closed:
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close disconnects all subscribers and waits for them to finish.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("subscriptions_subject").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
