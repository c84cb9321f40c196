package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Priyanshi1908/openQA.ai/pkg/utils"
)

type Config struct {
	Port        string
	CorsOrigins []string
}

func NewConfig(port string, corsOrigins ...string) (*Config, error) {
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.TrimNonEmpty(corsOrigins)

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:        port,
		CorsOrigins: origins,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
