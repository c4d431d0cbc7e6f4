// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/head_tracker/internal/app"
	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/orientation"
)

func main() {
	configPath := flag.String("config", "head_tracker_config.txt", "Path to configuration file")
	flag.Parse()

	log.Println("starting head-tracker MQTT producer (mock tracker)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config from %s: %v", *configPath, err)
	}

	if err := app.RunTrackerProducer(orientation.NewMockSource()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
