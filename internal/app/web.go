// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/orientation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

const wsWriteTimeout = 2 * time.Second

// poseHub keeps the latest pose and fans new ones out to websocket clients.
// Slow clients miss poses rather than block the MQTT callback.
type poseHub struct {
	mu   sync.RWMutex
	last orientation.Pose
	have bool
	subs map[chan orientation.Pose]struct{}
}

func newPoseHub() *poseHub {
	return &poseHub{subs: make(map[chan orientation.Pose]struct{})}
}

func (h *poseHub) publish(p orientation.Pose) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = p
	h.have = true
	for ch := range h.subs {
		select {
		case ch <- p:
		default:
		}
	}
}

func (h *poseHub) latest() (orientation.Pose, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.have
}

func (h *poseHub) subscribe() (<-chan orientation.Pose, func()) {
	ch := make(chan orientation.Pose, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func newWebMux(h *poseHub) *http.ServeMux {
	mux := http.NewServeMux()

	// JSON API endpoint: latest pose
	mux.HandleFunc("/api/orientation", func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.latest()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws/orientation", h.handleWS)
	return mux
}

// handleWS streams every pose as a JSON text frame, starting with the
// latest one if any.
func (h *poseHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	poses, unsubscribe := h.subscribe()
	defer unsubscribe()

	// Reader loop only to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket read error: %v", err)
				}
				return
			}
		}
	}()

	send := func(p orientation.Pose) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(p); err != nil {
			log.Printf("web: websocket write error: %v", err)
			return false
		}
		return true
	}

	if p, ok := h.latest(); ok && !send(p) {
		return
	}
	for {
		select {
		case <-closed:
			return
		case p := <-poses:
			if !send(p) {
				return
			}
		}
	}
}

// RunWeb serves the latest pose over HTTP and streams poses over a websocket.
func RunWeb() error {
	cfg := config.Get()
	hub := newPoseHub()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		hub.publish(p)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicPose)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(hub))
}
