package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Service is one entry of the apps.yaml registry. The internal address is used
// for service-to-service calls inside the deployment network, the external one
// for URLs handed out to browsers (QR landing redirects).
type Service struct {
	Scheme       string `yaml:"http"`
	HostExternal string `yaml:"ip_host"`
	Host         string `yaml:"ip"`
	Port         string `yaml:"port"`
}

func (s Service) URL() string {
	return fmt.Sprintf("%s://%s:%s", s.Scheme, s.Host, s.Port)
}

func (s Service) ExternalURL() string {
	return fmt.Sprintf("%s://%s:%s", s.Scheme, s.HostExternal, s.Port)
}

// Services holds the addresses of every deployed PetBook service.
type Services struct {
	Client     Service
	Controller Service
	Redirecter Service
	Notifier   Service
}

type yamlFile struct {
	Services map[string]Service `yaml:"services"`
}

// Load reads the service registry from the given apps.yaml file.
func Load(path string) (*Services, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	services := &Services{}
	for name, dst := range map[string]*Service{
		"client":     &services.Client,
		"controller": &services.Controller,
		"redirecter": &services.Redirecter,
		"notifier":   &services.Notifier,
	} {
		svc, ok := file.Services[name]
		if !ok {
			return nil, fmt.Errorf("service %q missing from config file %s", name, path)
		}
		*dst = svc
	}

	return services, nil
}

// LoadFromEnv loads the registry from APPS_CONFIG, defaulting to the mounted
// path used in container deployments.
func LoadFromEnv() (*Services, error) {
	path := os.Getenv("APPS_CONFIG")
	if path == "" {
		path = "/app/config/apps.yaml"
	}
	return Load(path)
}
