package connector

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DSNBuilder provides a fluent interface for building URL style connection
// strings (postgres://, sqlserver://).
type DSNBuilder struct {
	scheme   string
	username string
	password string
	host     string
	port     int
	database string
	dbParam  string
	params   map[string]string
}

// NewDSNBuilder creates a new DSN builder
func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{
		scheme: scheme,
		params: make(map[string]string),
	}
}

// Auth sets username and password
func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	b.username = username
	b.password = password
	return b
}

// Host sets the host and port
func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	b.host = host
	b.port = port
	return b
}

// Database sets the database name as the URL path.
func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.database = name
	return b
}

// DatabaseParam passes the database name as the query parameter key
// instead of the path, as sqlserver:// expects.
func (b *DSNBuilder) DatabaseParam(key string) *DSNBuilder {
	b.dbParam = key
	return b
}

// Param adds a single parameter; empty values are dropped.
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params[key] = value
	}
	return b
}

// Params adds multiple parameters
func (b *DSNBuilder) Params(params map[string]string) *DSNBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

func (b *DSNBuilder) Validate() error {
	if b.host == "" {
		return errors.New("host is required")
	}
	if b.port < 0 || b.port > 65535 {
		return errors.Errorf("invalid port: %d", b.port)
	}
	return nil
}

// Build constructs the final DSN string. Parameters are emitted in key order.
func (b *DSNBuilder) Build() string {
	var dsn strings.Builder

	dsn.WriteString(b.scheme)
	dsn.WriteString("://")

	if b.username != "" {
		dsn.WriteString(url.QueryEscape(b.username))
		if b.password != "" {
			dsn.WriteString(":")
			dsn.WriteString(url.QueryEscape(b.password))
		}
		dsn.WriteString("@")
	}

	dsn.WriteString(b.host)
	if b.port > 0 {
		dsn.WriteString(":")
		dsn.WriteString(strconv.Itoa(b.port))
	}

	params := make(map[string]string, len(b.params)+1)
	for k, v := range b.params {
		params[k] = v
	}
	if b.database != "" {
		if b.dbParam != "" {
			params[b.dbParam] = b.database
		} else {
			dsn.WriteString("/")
			dsn.WriteString(url.PathEscape(b.database))
		}
	}

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dsn.WriteString("?")
		for i, key := range keys {
			if i > 0 {
				dsn.WriteString("&")
			}
			dsn.WriteString(url.QueryEscape(key))
			dsn.WriteString("=")
			dsn.WriteString(url.QueryEscape(params[key]))
		}
	}

	return dsn.String()
}
