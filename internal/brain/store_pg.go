// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package brain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore Postgres 实现
//
// 建表：
//
//	CREATE TABLE IF NOT EXISTS thread_brain (
//	    context_key TEXT PRIMARY KEY,
//	    doc         JSONB NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore 创建基于 PostgreSQL 的长期记忆存储
func NewPgStore(ctx context.Context, dsn string) (*PgStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PgStore{pool: pool}, nil
}

// Close 关闭连接池
func (s *PgStore) Close() {
	s.pool.Close()
}

// Get 实现 Store
func (s *PgStore) Get(ctx context.Context, contextKey string) (map[string]any, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM thread_brain WHERE context_key = $1`,
		contextKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil
	}
	return doc, nil
}

// Put 实现 Store
func (s *PgStore) Put(ctx context.Context, contextKey string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO thread_brain (context_key, doc, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (context_key) DO UPDATE SET doc = $2, updated_at = now()`,
		contextKey, raw)
	return err
}
