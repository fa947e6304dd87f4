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
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

var referentialActions = map[string]bool{
	"":          true,
	"CASCADE":   true,
	"RESTRICT":  true,
	"SET NULL":  true,
	"NO ACTION": true,
}

// ForeignKeyConstraint describes a foreign key relationship between tables.
// Constraints are rendered into CREATE TABLE so that every dialect,
// SQLite included, can enforce them.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update"`
}

// Clause returns the FOREIGN KEY body and its identifier args as accepted by
// bun's CreateTableQuery.ForeignKey, quoted by the active dialect.
func (fk ForeignKeyConstraint) Clause() (string, []interface{}) {
	query := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		query += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		query += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return query, []interface{}{bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn)}
}

// Validate reports missing names and unknown referential actions.
func (fk ForeignKeyConstraint) Validate() error {
	if fk.Table == "" || fk.Column == "" || fk.ReferenceTable == "" || fk.ReferenceColumn == "" {
		return fmt.Errorf("foreign key %s.%s: table, column and reference are required", fk.Table, fk.Column)
	}
	if !referentialActions[strings.ToUpper(fk.OnDelete)] {
		return fmt.Errorf("foreign key %s.%s: unsupported ON DELETE action %q", fk.Table, fk.Column, fk.OnDelete)
	}
	if !referentialActions[strings.ToUpper(fk.OnUpdate)] {
		return fmt.Errorf("foreign key %s.%s: unsupported ON UPDATE action %q", fk.Table, fk.Column, fk.OnUpdate)
	}
	return nil
}

// ForeignKeyConfig is the YAML structure that lists foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// ForeignKeyManager resolves the constraints of each table. Code-defined
// constraints come from the model registry; a YAML file, when present,
// replaces the constraints of every table it mentions.
type ForeignKeyManager struct {
	byTable map[string][]ForeignKeyConstraint
	logger  Logger
}

// NewForeignKeyManager collects constraints from the registered models and
// applies the overrides found in configPath (empty means none).
func NewForeignKeyManager(logger Logger, models []SQLModel, configPath string) (*ForeignKeyManager, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	m := &ForeignKeyManager{byTable: make(map[string][]ForeignKeyConstraint), logger: logger}
	for _, model := range models {
		for _, fk := range model.ForeignKeys() {
			m.byTable[fk.Table] = append(m.byTable[fk.Table], fk)
		}
	}
	if configPath == "" {
		return m, m.validate()
	}
	overrides, err := loadForeignKeyFile(configPath)
	if err != nil {
		logger.Debug("Foreign key file not applied, using code-defined constraints", "error", err.Error(), "config_path", configPath)
		return m, m.validate()
	}
	replaced := make(map[string]bool)
	for _, fk := range overrides {
		if !replaced[fk.Table] {
			m.byTable[fk.Table] = nil
			replaced[fk.Table] = true
		}
		m.byTable[fk.Table] = append(m.byTable[fk.Table], fk)
	}
	return m, m.validate()
}

// ForTable returns the constraints declared on table.
func (m *ForeignKeyManager) ForTable(table string) []ForeignKeyConstraint {
	return m.byTable[table]
}

func (m *ForeignKeyManager) validate() error {
	var problems []string
	for _, fks := range m.byTable {
		for _, fk := range fks {
			if err := fk.Validate(); err != nil {
				problems = append(problems, err.Error())
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("foreign key constraint validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func loadForeignKeyFile(path string) ([]ForeignKeyConstraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign key file: %w", err)
	}
	var cfg ForeignKeyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foreign key file: %w", err)
	}
	return cfg.ForeignKeys, nil
}
