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
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const commonEnvironment = "common"

var fileOrderPattern = regexp.MustCompile(`^(\d+)_`)

// Seeder executes the SQL files found under <root>/common and then under
// <root>/environments/<env>. Files run in the order given by their numeric
// prefix ("001_users.sql"); unnumbered files run last.
type Seeder struct {
	root        string
	environment string
	logger      Logger
}

// SQLFileInfo describes a SQL file selected for execution.
type SQLFileInfo struct {
	Path        string
	Name        string
	Order       int
	Environment string
}

func NewSeeder(logger Logger, cfg DataInitConfig) *Seeder {
	if logger == nil {
		logger = NopLogger{}
	}
	root := cfg.Filepath
	if root == "" {
		root = "configs/sql"
	}
	env := cfg.Environment
	if env == "" {
		env = "prod"
	}
	return &Seeder{root: root, environment: env, logger: logger}
}

// Run executes every discovered statement against db. A missing root
// directory is not an error.
func (s *Seeder) Run(ctx context.Context, db bun.IDB) error {
	files, err := s.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		s.logger.Info("No SQL files found to execute", "sql_path", s.root)
		return nil
	}
	for _, file := range files {
		start := time.Now()
		rows, err := s.executeFile(ctx, db, file)
		if err != nil {
			s.logger.Error("SQL file execution failed", "file", file.Path, "error", err)
			return fmt.Errorf("SQL file execution failed %s: %w", file.Path, err)
		}
		s.logger.Info("SQL file executed successfully",
			"file", file.Path,
			"duration", time.Since(start).String(),
			"rows_affected", rows,
		)
	}
	return nil
}

// Files lists the SQL files to execute, common ones first.
func (s *Seeder) Files() ([]SQLFileInfo, error) {
	common, err := s.filesIn(filepath.Join(s.root, commonEnvironment), commonEnvironment)
	if err != nil {
		return nil, fmt.Errorf("failed to get common SQL files: %w", err)
	}
	env, err := s.filesIn(filepath.Join(s.root, "environments", s.environment), s.environment)
	if err != nil {
		return nil, fmt.Errorf("failed to get environment SQL files: %w", err)
	}
	return append(common, env...), nil
}

func (s *Seeder) filesIn(dir, environment string) ([]SQLFileInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var files []SQLFileInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		files = append(files, SQLFileInfo{
			Path:        path,
			Name:        d.Name(),
			Order:       parseFileOrder(d.Name()),
			Environment: environment,
		})
		return nil
	})
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, err
}

func parseFileOrder(name string) int {
	m := fileOrderPattern.FindStringSubmatch(name)
	if len(m) < 2 {
		return 999
	}
	order, err := strconv.Atoi(m[1])
	if err != nil {
		return 999
	}
	return order
}

func (s *Seeder) executeFile(ctx context.Context, db bun.IDB, file SQLFileInfo) (int64, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	var total int64
	for _, stmt := range splitSQLStatements(string(content)) {
		res, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return total, fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// splitSQLStatements splits on lines ending with ';' and drops blank lines
// and "--" comments.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			flush()
		}
	}
	flush()
	return statements
}
