package main

import (
	"errors"
	"os"
	"strings"
	"sync"

	"catalogpress/internal/config"
	"catalogpress/internal/contentrepo"
	"catalogpress/internal/deploy"
	"catalogpress/internal/editstore"
)

type commandContext struct {
	configFlag *string
	actorFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, actorFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		actorFlag:  actorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withStore(fn func(*editstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := editstore.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) repository() (deploy.RepositoryClient, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return contentrepo.New(cfg), nil
}

// actor returns the identity string recorded against edits and reviews.
func (c *commandContext) actor() (string, error) {
	if c.actorFlag != nil {
		if actor := strings.TrimSpace(*c.actorFlag); actor != "" {
			return actor, nil
		}
	}
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" {
		return user, nil
	}
	return "", errors.New("no actor identity; pass --actor or set $USER")
}
