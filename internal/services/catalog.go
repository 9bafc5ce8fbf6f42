// Package services infers the external services a project needs from the
// names of its environment variables.
package services

import (
	"fmt"
	"regexp"
)

// Kind classifies a backing service.
type Kind string

const (
	KindDatabase      Kind = "database"
	KindCache         Kind = "cache"
	KindDocumentStore Kind = "document-store"
	KindSearch        Kind = "search"
	KindBroker        Kind = "broker"
	KindStream        Kind = "stream"
	KindOther         Kind = "other"
)

// Pattern associates variable names with a service.
type Pattern struct {
	Name  string
	Kind  Kind
	Match *regexp.Regexp

	// Image and Port describe the container used for the service in a
	// generated docker-compose.yml.
	Image string
	Port  int
}

// builtinPatterns is ordered; the first matching entry wins.
var builtinPatterns = []Pattern{
	{Name: "Database", Kind: KindDatabase, Match: regexp.MustCompile(`DB_HOST|DATABASE_URL`), Image: "postgres:16", Port: 5432},
	{Name: "Redis", Kind: KindCache, Match: regexp.MustCompile(`REDIS_URL|REDIS_HOST`), Image: "redis:7", Port: 6379},
	{Name: "MongoDB", Kind: KindDocumentStore, Match: regexp.MustCompile(`MONGODB_URI|MONGO_URL`), Image: "mongo:7", Port: 27017},
	{Name: "Elasticsearch", Kind: KindSearch, Match: regexp.MustCompile(`ELASTIC_URL|ELASTICSEARCH`), Image: "elasticsearch:8.13.0", Port: 9200},
	{Name: "RabbitMQ", Kind: KindBroker, Match: regexp.MustCompile(`RABBIT_URL|RABBITMQ`), Image: "rabbitmq:3-management", Port: 5672},
	{Name: "Kafka", Kind: KindStream, Match: regexp.MustCompile(`KAFKA_BROKERS|KAFKA_URL`), Image: "bitnami/kafka:3.7", Port: 9092},
}

// Builtin returns a copy of the built-in pattern list.
func Builtin() []Pattern {
	out := make([]Pattern, len(builtinPatterns))
	copy(out, builtinPatterns)
	return out
}

// Catalog is an ordered list of patterns.
type Catalog struct {
	patterns []Pattern
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{patterns: Builtin()}
}

// Append adds patterns after the existing ones. Names must be unique.
func (c *Catalog) Append(patterns ...Pattern) error {
	for _, p := range patterns {
		if p.Name == "" {
			return fmt.Errorf("service pattern has no name")
		}
		if p.Match == nil {
			return fmt.Errorf("service %q has no pattern", p.Name)
		}
		if _, exists := c.Lookup(p.Name); exists {
			return fmt.Errorf("service %q is already declared", p.Name)
		}
		c.patterns = append(c.patterns, p)
	}
	return nil
}

// Patterns returns the patterns in match order.
func (c *Catalog) Patterns() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Lookup finds a pattern by service name.
func (c *Catalog) Lookup(name string) (Pattern, bool) {
	for _, p := range c.patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Match returns the first pattern matching key.
func (c *Catalog) Match(key string) (Pattern, bool) {
	for _, p := range c.patterns {
		if p.Match.MatchString(key) {
			return p, true
		}
	}
	return Pattern{}, false
}
