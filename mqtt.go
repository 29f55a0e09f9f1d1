package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// cleanPayload cuts a sensor message at its first NUL byte and trims
// surrounding whitespace. Firmware sends fixed-size, zero-padded buffers.
func cleanPayload(payload []byte) []byte {
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	return bytes.TrimSpace(payload)
}

// mqttClientID is unique per process so instances never kick each other off the broker.
func mqttClientID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("emgviewer-%s-%s", host, uuid.NewString()[:8])
}

// handleMQTTMessage stores a reading received from the broker. A single
// {"value": x} sample is replaced by the features of the current window.
func (s *server) handleMQTTMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := cleanPayload(msg.Payload())
	if len(payload) == 0 {
		debugLog("Skipping empty message on %s", msg.Topic())
		return
	}

	if v, ok := parseSample(payload); ok && s.features != nil {
		f, ready := s.features.Add(v)
		if !ready {
			debugLog("Waiting for more samples on %s", msg.Topic())
			return
		}
		data, err := json.Marshal(f)
		if err != nil {
			errorLog("Error encoding features: %v", err)
			return
		}
		payload = data
	}
	if err := s.ingest(context.Background(), sourceMQTT, payload); err != nil {
		errorLog("Error storing MQTT reading from %s: %v", msg.Topic(), err)
	}
}

// startMQTTBridge connects to the broker and subscribes to topic on every
// (re)connect so readings published by the sensor land in the slot.
func startMQTTBridge(broker, topic string, s *server) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(mqttClientID())
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(topic, 0, s.handleMQTTMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			errorLog("Error subscribing to %s: %v", topic, err)
			return
		}
		infoLog("Subscribed to MQTT topic %s", topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		errorLog("MQTT connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", broker, token.Error())
	}
	return client, nil
}
