package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from environment variables.
// All settings have sensible defaults and can be overridden via env vars.
// Redis and MQTT are optional: an empty address disables them.
type Config struct {
	Debug        bool
	ServerPort   string
	DataFile     string
	RedisAddr    string
	RedisDB      int
	RedisChannel string
	RedisKey     string
	MQTTBroker   string
	MQTTTopic    string
}

// Global config instance
var config Config

// initConfig initializes the configuration from environment variables
func initConfig() {
	config = Config{
		Debug:        os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1",
		ServerPort:   getEnv("SERVER_PORT", ":8080"),
		DataFile:     getEnv("DATA_FILE", "data.json"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisChannel: getEnv("REDIS_CHANNEL", "emg_channel"),
		RedisKey:     getEnv("REDIS_KEY", "emg:latest"),
		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "esp32/emg"),
	}
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt is getEnv for integers. Unparsable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		errorLog("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// debugLog prints only when debug mode is enabled
func debugLog(format string, args ...interface{}) {
	if config.Debug {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

// infoLog always prints important information
func infoLog(format string, args ...interface{}) {
	fmt.Printf("[INFO] "+format+"\n", args...)
}

// errorLog always prints errors
func errorLog(format string, args ...interface{}) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}
