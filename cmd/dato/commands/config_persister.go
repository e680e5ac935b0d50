package commands

import (
	"fmt"
	"sync"

	"github.com/fivetwenty-io/dato-client/internal/auth"
	"github.com/fivetwenty-io/dato-client/internal/constants"
)

var _ auth.ConfigPersister = (*ConfigPersister)(nil)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken stores token as the token of project.
func (p *ConfigPersister) UpdateAPIToken(project, token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	projectConfig, exists := config.Projects[project]
	if !exists {
		return fmt.Errorf("project '%s': %w", project, constants.ErrProjectNotFound)
	}

	projectConfig.Token = token

	return saveConfigStruct(config)
}
