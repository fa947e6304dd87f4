/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalManager   AbstractDatabaseManager
	globalManagerMu sync.RWMutex
)

// Open connects using cfg, registers the models and runs migrations when
// cfg enables them on startup.
func Open(ctx context.Context, cfg *Config) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	manager := NewDatabaseManager(&cfg.ConnectionConfig)
	if err := manager.Connect(ctx); err != nil {
		return nil, err
	}
	manager.GetDB().RegisterModel(RegisteredModelInstances()...)

	if cfg.DataMigrateConfig.EnableMigrateOnStartup {
		if err := manager.RunMigrations(ctx, cfg); err != nil {
			_ = manager.Disconnect()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	return manager, nil
}

// InitDB opens the database and installs it as the process-wide manager.
func InitDB(ctx context.Context, cfg *Config) (*bun.DB, error) {
	manager, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	globalManagerMu.Lock()
	defer globalManagerMu.Unlock()
	if globalManager != nil {
		_ = globalManager.Disconnect()
	}
	globalManager = manager
	return manager.GetDB(), nil
}

// GetDB returns the process-wide Bun database, or nil before InitDB.
func GetDB() *bun.DB {
	globalManagerMu.RLock()
	defer globalManagerMu.RUnlock()
	if globalManager == nil {
		return nil
	}
	return globalManager.GetDB()
}

// CloseDB closes the process-wide database.
func CloseDB() error {
	globalManagerMu.Lock()
	defer globalManagerMu.Unlock()
	if globalManager == nil {
		return nil
	}
	err := globalManager.Disconnect()
	globalManager = nil
	return err
}

// GetHealthStatus reports the health of the process-wide database.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	globalManagerMu.RLock()
	manager := globalManager
	globalManagerMu.RUnlock()
	if manager == nil {
		return &HealthStatus{LastError: "Database not initialized"}
	}
	return manager.HealthCheck(ctx)
}
