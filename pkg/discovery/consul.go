package discovery

import (
	"fmt"
	"strconv"

	"quizzbuzz/internal/config"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type ServiceRegistry struct {
	client *api.Client
	server config.ServerConfig
	logger *zap.Logger
}

func NewServiceRegistry(consul config.ConsulConfig, server config.ServerConfig, logger *zap.Logger) (*ServiceRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	consulConfig := api.DefaultConfig()
	consulConfig.Address = consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &ServiceRegistry{
		client: client,
		server: server,
		logger: logger,
	}, nil
}

// Registration describes this instance to Consul, health-checked over /health.
func Registration(server config.ServerConfig) (*api.AgentServiceRegistration, error) {
	port, err := strconv.Atoi(server.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid service port %q: %w", server.Port, err)
	}

	return &api.AgentServiceRegistration{
		ID:      server.ServiceID,
		Name:    server.ServiceName,
		Port:    port,
		Address: server.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", server.ServiceAddress, server.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"quiz", "mongodb"},
	}, nil
}

func (sr *ServiceRegistry) Register() error {
	registration, err := Registration(sr.server)
	if err != nil {
		return err
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with Consul: %w", err)
	}

	sr.logger.Info("registered service with Consul", zap.String("service_id", registration.ID))
	return nil
}

// Deregister removes the service from Consul
func (sr *ServiceRegistry) Deregister() error {
	return sr.client.Agent().ServiceDeregister(sr.server.ServiceID)
}
