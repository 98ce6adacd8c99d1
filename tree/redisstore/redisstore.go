/*
Package redisstore provides a store for classification trees backed by a
redis DB, where each tree is kept under its own key in the preorder text
format.
*/
package redisstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/tree"
	"gopkg.in/redis.v5"
)

// Error represents an error related with the store
type Error string

// ErrTreeNotFound is the error returned when loading a tree that is not
// in the store.
const ErrTreeNotFound = Error("tree not found")

func (e Error) Error() string {
	return string(e)
}

/*
Store keeps serialized trees on a redis DB under keys made from a
prefix and the name of each tree.
*/
type Store struct {
	rc     *redis.Client
	prefix string
}

// New builds a Store backed by a redis DB
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc, prefix}
}

/*
Save takes a context, a name and a tree and stores the tree under the
name, replacing any tree previously stored with it. An error is returned
if the tree cannot be serialized or stored.
*/
func (s *Store) Save(ctx context.Context, name string, t *tree.Tree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return fmt.Errorf("storing tree %q: serializing tree: %w", name, err)
	}
	key := s.keyFor(name)
	if err := s.rc.Set(key, buf.String(), 0).Err(); err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", key, err)
	}
	return nil
}

/*
Load takes a context and a name and returns the tree stored under the name.
An error wrapping ErrTreeNotFound is returned if there is none, and an
error is returned if redis cannot be queried or the stored tree cannot be
read.
*/
func (s *Store) Load(ctx context.Context, name string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := s.keyFor(name)
	data, err := s.rc.Get(key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("retrieving tree %q: %w", key, ErrTreeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", key, err)
	}
	t, err := tree.Read(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %w", key, err)
	}
	return t, nil
}

// Delete takes a context and a name and removes the tree stored under it
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := s.keyFor(name)
	if err := s.rc.Del(key).Err(); err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", key, err)
	}
	return nil
}

// List takes a context and returns the names of the stored trees
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := s.rc.Keys(s.keyFor("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("listing trees in redis: %v", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, s.nameFor(k))
	}
	return names, nil
}

func (s *Store) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}

func (s *Store) nameFor(key string) string {
	return strings.TrimPrefix(key, s.prefix+":")
}
