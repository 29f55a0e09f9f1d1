package main

import "context"

// ingestResponse is the acknowledgment body returned to POST requests.
type ingestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// publisher fans a freshly stored reading out to push clients.
type publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// server bundles what the HTTP handlers and the MQTT bridge share.
type server struct {
	// slot is the authoritative copy of the latest reading.
	slot *slot

	// pub receives every reading after it has been stored.
	pub publisher

	// hub keeps track of connected WebSocket clients.
	hub *hub

	// features turns raw MQTT samples into feature readings. Nil stores
	// every MQTT payload as is.
	features *featureWindow
}
