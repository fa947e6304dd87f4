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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryFilterAnd(t *testing.T) {
	f := NewQueryFilter("price >= ?", 10).And(NewQueryFilter("city = ?", "X"))
	assert.Equal(t, "(price >= ?) AND (city = ?)", f.Schema)
	assert.Equal(t, []interface{}{10, "X"}, f.Args)

	var empty *QueryFilter
	assert.Same(t, f, empty.And(f))
	assert.Same(t, f, f.And(nil))
	assert.True(t, AllOf(nil, NewQueryFilter(" ")).IsEmpty())
}

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewDefaultPageRequest(3, 10)
	assert.Equal(t, 20, p.GetOffset())
}

func TestPaginationTotalPages(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 10)
	p.Total = 25
	assert.Equal(t, 3, p.TotalPages())
}
