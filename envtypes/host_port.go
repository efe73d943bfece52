// Package envtypes provides common types used for parsing environment variables.
package envtypes

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

var (
	ErrBadHostAndPort = errors.New("expected host:port")
	ErrBadPort        = errors.New("invalid port")
)

// HostPort is a listen or dial address. An empty Host means every interface.
type HostPort struct {
	Host string
	Port uint16
}

// ParseHostPort reads "host:port", "[::1]:port" or ":port".
func ParseHostPort(value string) (HostPort, error) {
	host, portStr, err := net.SplitHostPort(value)
	if err != nil {
		return HostPort{}, fmt.Errorf("%w: %w", ErrBadHostAndPort, err)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return HostPort{}, fmt.Errorf("%w: %q", ErrBadPort, portStr)
	}

	return HostPort{Host: host, Port: uint16(port)}, nil
}

// String returns the host:port representation as a string.
func (hp HostPort) String() string {
	return net.JoinHostPort(hp.Host, strconv.FormatUint(uint64(hp.Port), 10))
}

// IsZero reports whether no address was configured.
func (hp HostPort) IsZero() bool {
	return hp == HostPort{}
}
