package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every host-level constant the harness touches. Ports, paths
// and names are configuration rather than hard dependencies so the harness
// can be retargeted at a different topology.
type Config struct {
	// ExamplesDir is the root whose immediate subdirectories are scenarios.
	ExamplesDir string
	// ArtifactDir is where per-scenario, per-mode logs are preserved.
	ArtifactDir string
	// LogDirName is the working log directory each entrypoint writes into.
	LogDirName string
	// SnapshotFile is the stale state file wiped before every job.
	SnapshotFile string
	// EntrypointScript is the executable each scenario directory must contain.
	EntrypointScript string

	// Ports reaped before every job.
	NodePorts       []int
	SettlementPorts []int
	RedisPortStart  int
	RedisPortEnd    int

	RedisHost     string
	DockerNetwork string
	DockerBinary  string

	// Optional integrations. Empty means disabled.
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	HistoryDB    string
	OTLPEndpoint string
	MetricsFile  string

	LogLevel    string
	LogEncoding string
}

func LoadConfig() *Config {
	return &Config{
		ExamplesDir:      getEnv("HARNESS_EXAMPLES_DIR", "./examples"),
		ArtifactDir:      getEnv("HARNESS_ARTIFACT_DIR", "./test-artifacts"),
		LogDirName:       getEnv("HARNESS_LOG_DIR", "logs"),
		SnapshotFile:     getEnv("HARNESS_SNAPSHOT_FILE", "dump.rdb"),
		EntrypointScript: getEnv("HARNESS_ENTRYPOINT", "run.sh"),
		NodePorts:        getEnvAsPorts("HARNESS_NODE_PORTS", []int{7770, 8770, 9770}),
		SettlementPorts:  getEnvAsPorts("HARNESS_SETTLEMENT_PORTS", []int{3000, 3001, 3002}),
		RedisPortStart:   getEnvAsInt("HARNESS_REDIS_PORT_START", 6379),
		RedisPortEnd:     getEnvAsInt("HARNESS_REDIS_PORT_END", 6385),
		RedisHost:        getEnv("HARNESS_REDIS_HOST", "localhost"),
		DockerNetwork:    getEnv("HARNESS_DOCKER_NETWORK", "testnet"),
		DockerBinary:     getEnv("HARNESS_DOCKER_BIN", "docker"),
		S3Bucket:         getEnv("HARNESS_S3_BUCKET", ""),
		S3Region:         getEnv("HARNESS_S3_REGION", "us-east-1"),
		S3Endpoint:       getEnv("HARNESS_S3_ENDPOINT", ""),
		HistoryDB:        getEnv("HARNESS_HISTORY_DB", ""),
		OTLPEndpoint:     getEnv("HARNESS_OTLP_ENDPOINT", ""),
		MetricsFile:      getEnv("HARNESS_METRICS_FILE", ""),
		LogLevel:         getEnv("HARNESS_LOG_LEVEL", "info"),
		LogEncoding:      getEnv("HARNESS_LOG_ENCODING", "console"),
	}
}

// TrackedPorts returns every port the reaper must clear, redis range included.
func (c *Config) TrackedPorts() []int {
	ports := make([]int, 0, len(c.NodePorts)+len(c.SettlementPorts)+c.RedisPortEnd-c.RedisPortStart+1)
	ports = append(ports, c.NodePorts...)
	ports = append(ports, c.SettlementPorts...)
	for p := c.RedisPortStart; p <= c.RedisPortEnd; p++ {
		ports = append(ports, p)
	}
	return ports
}

// IsRedisPort reports whether the port belongs to the redis range and so
// should get a graceful SHUTDOWN before any signal.
func (c *Config) IsRedisPort(port int) bool {
	return port >= c.RedisPortStart && port <= c.RedisPortEnd
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsPorts(key string, fallback []int) []int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var ports []int
	for _, part := range strings.Split(valueStr, ",") {
		if value, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ports = append(ports, value)
		}
	}
	if len(ports) == 0 {
		return fallback
	}
	return ports
}
