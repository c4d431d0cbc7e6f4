// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/orientation"
)

// RunTrackerProducer reads tracker matrices, decomposes them and publishes
// the poses to MQTT. The OSC message each pose would become is logged.
func RunTrackerProducer(src orientation.Source) error {
	log.Println("starting head-tracker pose producer")

	cfg := config.Get()
	p := newPipeline(cfg)

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Printf("connected to MQTT at %s, publishing to %s (OSC preview for %s)",
		cfg.MQTTBroker, cfg.TopicPose, cfg.OSCTarget())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.TrackerSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		var t time.Time
		select {
		case <-sigCh:
			log.Println("producer: shutting down")
			return nil
		case t = <-ticker.C:
		}

		m, err := src.Next()
		if err != nil {
			log.Printf("error from tracker source: %v", err)
			continue
		}
		s := p.process(m)

		if err := publishPose(client, cfg.TopicPose, s.Pose); err != nil {
			log.Printf("MQTT publish error (pose): %v", err)
			continue
		}
		if cfg.TopicPoseMIDI != "" {
			if err := publishPose(client, cfg.TopicPoseMIDI, s.MIDIPose); err != nil {
				log.Printf("MQTT publish error (pose/midi): %v", err)
			}
		}

		log.Printf("%s tick: %s | osc %s",
			t.Format(time.RFC3339), formatPose(s.Pose), s.OSC.String())
	}
}

func publishPose(client mqtt.Client, topic string, p orientation.Pose) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if token := client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
