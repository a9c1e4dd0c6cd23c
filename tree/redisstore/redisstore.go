/*
Package redisstore provides an implementation of tree.Store
backed by a redis database. Trees are stored serialized as
JSON under the key prefix:name.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/pbanos/arbor/tree"
	"github.com/pbanos/arbor/tree/json"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
}

// New builds a tree.Store backed by a redis DB
func New(rc *redis.Client, prefix string) tree.Store {
	return &redisStore{rc, prefix}
}

/*
Open takes the address of a redis server, a database number and a prefix
and returns a tree.Store on it, or an error if the server cannot be
reached.
*/
func Open(addr string, db int, prefix string) (tree.Store, error) {
	rc := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %v", addr, err)
	}
	return &redisStore{rc, prefix}, nil
}

func (rs *redisStore) Save(ctx context.Context, name string, t *tree.Tree) error {
	key := rs.keyFor(name)
	data, err := json.EncodeTree(ctx, t)
	if err != nil {
		return fmt.Errorf("storing tree %q: %v", key, err)
	}
	_, err = rs.rc.Set(key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, name string) (*tree.Tree, error) {
	key := rs.keyFor(name)
	data, err := rs.rc.Get(key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", key, err)
	}
	t, err := json.DecodeTree(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", key, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	_, err := rs.rc.Del(key).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
