package constants

import (
	"os"
	"strconv"
	"time"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetSessionPath() string {
	return getenv("LIGHT_SESSION_PATH", "./out/session.json")
}

func GetDeviceId() string {
	if id := os.Getenv("LIGHT_DEVICE_ID"); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil {
		return "light-orchestra"
	}
	return host
}

func GetSerialPort() string {
	return os.Getenv("LIGHT_SERIAL_PORT")
}

func GetSerialBaud() int {
	baud, err := strconv.Atoi(os.Getenv("LIGHT_SERIAL_BAUD"))
	if err != nil || baud <= 0 {
		return 115200
	}
	return baud
}

// GetDynamoTable is empty unless sessions should live in DynamoDB.
func GetDynamoTable() string {
	return os.Getenv("LIGHT_DYNAMO_TABLE")
}

func GetDynamoEndpoint() string {
	return os.Getenv("LIGHT_DYNAMO_ENDPOINT")
}

func GetDynamoRegion() string {
	return getenv("LIGHT_DYNAMO_REGION", "us-east-1")
}

// Light is read as an unsigned 16 bit value. Readings are clamped to
// [MinLight, MaxLight]; MinLight and below is silence.
const (
	MinLight = 1000
	MaxLight = 65000
	MinFreq  = 261  // C4
	MaxFreq  = 1046 // C6
)

const DefaultBPM = 120

const TickInterval = 50 * time.Millisecond
