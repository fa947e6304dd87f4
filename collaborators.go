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

package estate

import (
	"context"
	"io"
)

// TokenResolver resolves the acting user id from a bearer token before any
// repository is called.
type TokenResolver interface {
	ResolveUserID(ctx context.Context, token string) (int64, error)
}

// FileStore persists uploaded images. The returned URL is stored verbatim on
// PropertyImage rows.
type FileStore interface {
	Save(ctx context.Context, name string, content io.Reader) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// Notifier delivers e-mail notifications.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

// Notify returns an after-commit hook sending one message through n.
func Notify(n Notifier, to, subject, body string) AfterCommitFunc {
	return func(ctx context.Context) error {
		return n.Notify(ctx, to, subject, body)
	}
}
