package generate

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"devenv/internal/services"
)

// ComposeVersion is written as the top-level version key.
const ComposeVersion = "3.8"

// AppService is the compose service that builds the project itself.
const AppService = "app"

// ComposeFile represents a docker-compose.yml
type ComposeFile struct {
	Version  string             `yaml:"version"`
	Services map[string]Service `yaml:"services"`
	Volumes  map[string]Volume  `yaml:"volumes,omitempty"`
	Networks map[string]Network `yaml:"networks,omitempty"`
}

// Service represents a docker-compose service
type Service struct {
	Image       string            `yaml:"image,omitempty"`
	Build       *BuildConfig      `yaml:"build,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	EnvFile     []string          `yaml:"env_file,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Networks    []string          `yaml:"networks,omitempty"`
	Healthcheck *Healthcheck      `yaml:"healthcheck,omitempty"`
	Restart     string            `yaml:"restart,omitempty"`
}

// BuildConfig represents build configuration for a service
type BuildConfig struct {
	Context    string `yaml:"context,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
}

// Healthcheck represents a healthcheck configuration
type Healthcheck struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval,omitempty"`
	Timeout  string   `yaml:"timeout,omitempty"`
	Retries  int      `yaml:"retries,omitempty"`
}

// Volume represents a docker volume
type Volume struct {
	Driver string `yaml:"driver,omitempty"`
}

// Network represents a docker network
type Network struct {
	Driver string `yaml:"driver,omitempty"`
}

// backing holds container settings keyed by image repository.
type backing struct {
	env         map[string]string
	dataPath    string
	healthcheck *Healthcheck
}

var backingDefaults = map[string]backing{
	"postgres": {
		env: map[string]string{
			"POSTGRES_USER":     "app",
			"POSTGRES_PASSWORD": "app",
			"POSTGRES_DB":       "app",
		},
		dataPath: "/var/lib/postgresql/data",
		healthcheck: &Healthcheck{
			Test:     []string{"CMD-SHELL", "pg_isready -U app"},
			Interval: "10s",
			Timeout:  "5s",
			Retries:  5,
		},
	},
	"redis": {
		dataPath: "/data",
		healthcheck: &Healthcheck{
			Test:     []string{"CMD", "redis-cli", "ping"},
			Interval: "10s",
			Timeout:  "3s",
			Retries:  3,
		},
	},
	"mongo": {
		dataPath: "/data/db",
		healthcheck: &Healthcheck{
			Test:     []string{"CMD", "mongosh", "--eval", "db.adminCommand('ping')"},
			Interval: "10s",
			Timeout:  "5s",
			Retries:  3,
		},
	},
	"elasticsearch": {
		env: map[string]string{
			"discovery.type":         "single-node",
			"xpack.security.enabled": "false",
		},
		dataPath: "/usr/share/elasticsearch/data",
	},
	"rabbitmq": {
		dataPath: "/var/lib/rabbitmq",
	},
	"bitnami/kafka": {
		env: map[string]string{
			"KAFKA_CFG_NODE_ID":                        "0",
			"KAFKA_CFG_PROCESS_ROLES":                  "controller,broker",
			"KAFKA_CFG_LISTENERS":                      "PLAINTEXT://:9092,CONTROLLER://:9093",
			"KAFKA_CFG_CONTROLLER_QUORUM_VOTERS":       "0@kafka:9093",
			"KAFKA_CFG_CONTROLLER_LISTENER_NAMES":      "CONTROLLER",
			"KAFKA_CFG_LISTENER_SECURITY_PROTOCOL_MAP": "CONTROLLER:PLAINTEXT,PLAINTEXT:PLAINTEXT",
		},
		dataPath: "/bitnami/kafka",
	},
}

// ComposeSpec builds the compose structure for opts. Each inferred service
// appears once; it is a dependency of the app when any of its variables is
// required.
func ComposeSpec(opts Options) (*ComposeFile, error) {
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", opts.Port)
	}

	port := strconv.Itoa(opts.Port)
	compose := &ComposeFile{
		Version:  ComposeVersion,
		Services: make(map[string]Service),
		Volumes:  make(map[string]Volume),
		Networks: make(map[string]Network),
	}

	mode := "production"
	if opts.Development {
		mode = "development"
	}
	app := Service{
		Build: &BuildConfig{Context: ".", Dockerfile: "Dockerfile"},
		Ports: []string{port + ":" + port},
		Environment: map[string]string{
			"NODE_ENV": mode,
			"PORT":     port,
		},
		Networks: opts.Networks,
	}
	if opts.EnvFile {
		app.EnvFile = []string{".env"}
	}
	if opts.Development {
		app.Volumes = append(app.Volumes, ".:/app", "/app/node_modules")
	}
	app.Volumes = append(app.Volumes, opts.Volumes...)

	catalog := opts.catalog()
	for _, name := range serviceOrder(opts.Services) {
		pattern, ok := catalog.Lookup(name)
		if !ok || pattern.Image == "" {
			continue
		}
		key := serviceKey(name)
		svc := backingService(key, pattern)
		svc.Networks = opts.Networks
		compose.Services[key] = svc
		if len(svc.Volumes) > 0 {
			compose.Volumes[key+"-data"] = Volume{Driver: "local"}
		}
		if required(opts.Services, name) {
			app.DependsOn = append(app.DependsOn, key)
		}
	}
	compose.Services[AppService] = app

	for _, n := range opts.Networks {
		compose.Networks[n] = Network{Driver: "bridge"}
	}
	return compose, nil
}

// Compose renders docker-compose.yml for opts.
func Compose(opts Options) ([]byte, error) {
	compose, err := ComposeSpec(opts)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(compose)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal compose file: %w", err)
	}
	return data, nil
}

func backingService(key string, p services.Pattern) Service {
	svc := Service{
		Image:   p.Image,
		Restart: "unless-stopped",
	}
	if p.Port > 0 {
		port := strconv.Itoa(p.Port)
		svc.Ports = []string{port + ":" + port}
	}

	repo, _, _ := strings.Cut(p.Image, ":")
	if d, ok := backingDefaults[repo]; ok {
		if len(d.env) > 0 {
			svc.Environment = make(map[string]string, len(d.env))
			for k, v := range d.env {
				svc.Environment[k] = v
			}
		}
		if d.dataPath != "" {
			svc.Volumes = []string{key + "-data:" + d.dataPath}
		}
		if d.healthcheck != nil {
			hc := *d.healthcheck
			svc.Healthcheck = &hc
		}
	}
	return svc
}

// serviceOrder returns distinct service names in first-seen order.
func serviceOrder(descs []services.Descriptor) []string {
	seen := make(map[string]bool, len(descs))
	var names []string
	for _, d := range descs {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	return names
}

func required(descs []services.Descriptor, name string) bool {
	for _, d := range descs {
		if d.Name == name && d.Required {
			return true
		}
	}
	return false
}

// serviceKey turns a service name into a compose service key.
func serviceKey(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
