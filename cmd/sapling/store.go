package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling/config"
	"github.com/pbanos/sapling/tree"
	"github.com/pbanos/sapling/tree/redisstore"
	redis "gopkg.in/redis.v5"
)

func (rc *rootCmdConfig) redisStore() (*redisstore.Store, func() error) {
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Redis.Addr,
		Password: rc.Redis.Password,
		DB:       rc.Redis.DB,
	})
	return redisstore.New(client, rc.Redis.Prefix), client.Close
}

// loadTree reads the tree from the configured tree store
func (rc *rootCmdConfig) loadTree(ctx context.Context) (*tree.Tree, error) {
	if rc.Tree.Store == config.StoreRedis {
		rc.logger.Debug("loading tree from redis", "addr", rc.Redis.Addr, "name", rc.Tree.Name)
		s, closeFunc := rc.redisStore()
		defer closeFunc()
		return s.Load(ctx, rc.Tree.Name)
	}
	var r io.Reader = os.Stdin
	if rc.Tree.Path != "" {
		rc.logger.Debug("loading tree from file", "path", rc.Tree.Path)
		f, err := os.Open(rc.Tree.Path)
		if err != nil {
			return nil, fmt.Errorf("reading tree from %s: %v", rc.Tree.Path, err)
		}
		defer f.Close()
		r = f
	}
	t, err := tree.Read(r)
	if err != nil {
		return nil, fmt.Errorf("parsing tree from %s: %w", inputName(rc.Tree.Path), err)
	}
	return t, nil
}

// saveTree writes the tree to the configured tree store
func (rc *rootCmdConfig) saveTree(ctx context.Context, t *tree.Tree) error {
	if rc.Tree.Store == config.StoreRedis {
		rc.logger.Debug("saving tree to redis", "addr", rc.Redis.Addr, "name", rc.Tree.Name)
		s, closeFunc := rc.redisStore()
		defer closeFunc()
		return s.Save(ctx, rc.Tree.Name, t)
	}
	if rc.Tree.Path == "" {
		_, err := t.WriteTo(os.Stdout)
		return err
	}
	rc.logger.Debug("saving tree to file", "path", rc.Tree.Path)
	f, err := os.Create(rc.Tree.Path)
	if err != nil {
		return err
	}
	if _, err = t.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
