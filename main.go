package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// main is the entry point for the EMG viewer server.
// It prepares the storage slot, wires the optional Redis fan-out and
// MQTT bridge, launches the WebSocket broadcaster, and starts the HTTP server.
func main() {
	// Initialize configuration
	initConfig()

	// Root context for background work.
	ctx := context.Background()

	h := newHub()
	s := &server{
		slot:     newSlot(config.DataFile),
		pub:      localPublisher{hub: h},
		hub:      h,
		features: newFeatureWindow(featureWindowSpan),
	}

	if config.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: "",
			DB:       config.RedisDB,
			Protocol: 2,
		})

		if err := restoreLatestData(ctx, rdb, config.RedisKey, s.slot); err != nil {
			errorLog("Error restoring latest reading: %v", err)
		}

		// Only route through Redis once the subscriber is listening;
		// otherwise local clients would never see a reading.
		if err := startRedisSubscriber(ctx, rdb, config.RedisChannel, h); err != nil {
			errorLog("Redis unavailable, broadcasting locally: %v", err)
		} else {
			s.pub = newRedisPublisher(rdb, config.RedisKey, config.RedisChannel)
		}
	}

	// Start WebSocket broadcaster in background.
	go h.run()

	if config.MQTTBroker != "" {
		client, err := startMQTTBridge(config.MQTTBroker, config.MQTTTopic, s)
		if err != nil {
			errorLog("MQTT bridge disabled: %v", err)
		} else {
			defer client.Disconnect(250)
		}
	}

	// Start the HTTP server.
	infoLog("Starting server on %s (Debug: %v, data file: %s)", config.ServerPort, config.Debug, config.DataFile)
	if err := http.ListenAndServe(config.ServerPort, newRouter(s, promhttp.Handler())); err != nil {
		errorLog("HTTP server error: %v", err)
	}
}
