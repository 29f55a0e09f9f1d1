package main

import "testing"

func TestInitConfigDefaults(t *testing.T) {
	for _, key := range []string{"DEBUG", "SERVER_PORT", "DATA_FILE", "REDIS_ADDR", "REDIS_DB", "REDIS_CHANNEL", "REDIS_KEY", "MQTT_BROKER", "MQTT_TOPIC"} {
		t.Setenv(key, "")
	}
	defer func() { config = Config{} }()
	initConfig()

	want := Config{
		ServerPort:   ":8080",
		DataFile:     "data.json",
		RedisChannel: "emg_channel",
		RedisKey:     "emg:latest",
		MQTTTopic:    "esp32/emg",
	}
	if config != want {
		t.Errorf("config = %+v, want %+v", config, want)
	}
}

func TestInitConfigFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "1")
	t.Setenv("DATA_FILE", "/var/lib/emg/data.json")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	defer func() { config = Config{} }()

	initConfig()

	if !config.Debug {
		t.Error("Debug = false, want true")
	}
	if config.DataFile != "/var/lib/emg/data.json" {
		t.Errorf("DataFile = %q", config.DataFile)
	}
	if config.RedisAddr != "localhost:6379" || config.RedisDB != 3 {
		t.Errorf("Redis = %q db %d", config.RedisAddr, config.RedisDB)
	}
	if config.MQTTBroker != "tcp://broker:1883" {
		t.Errorf("MQTTBroker = %q", config.MQTTBroker)
	}
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	if got := getEnvInt("REDIS_DB", 5); got != 5 {
		t.Errorf("getEnvInt() = %d, want 5", got)
	}
}
