package discovery

import (
	"testing"

	"quizzbuzz/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration(t *testing.T) {
	server := config.ServerConfig{
		Port:           "6666",
		ServiceName:    "quiz-service",
		ServiceAddress: "quiz-service",
		ServiceID:      "quiz-service-1",
	}

	reg, err := Registration(server)
	require.NoError(t, err)
	assert.Equal(t, "quiz-service-1", reg.ID)
	assert.Equal(t, "quiz-service", reg.Name)
	assert.Equal(t, 6666, reg.Port)
	assert.Equal(t, "http://quiz-service:6666/health", reg.Check.HTTP)
}

func TestRegistrationRejectsBadPort(t *testing.T) {
	_, err := Registration(config.ServerConfig{Port: "http"})
	assert.Error(t, err)
}

func TestNewServiceRegistry(t *testing.T) {
	registry, err := NewServiceRegistry(config.ConsulConfig{Address: "127.0.0.1:8500"}, config.ServerConfig{Port: "6666"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, registry)
}
