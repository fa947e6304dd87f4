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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// EnumEntry is one member of an integer-backed enumeration.
type EnumEntry struct {
	Number int
	Name   string
	Desc   string
}

// EnumTable lists the members of an enumeration by number.
type EnumTable []EnumEntry

// Lookup returns the entry for n, or an illegal entry when n is not a member.
func (t EnumTable) Lookup(n int) (EnumEntry, bool) {
	for _, e := range t {
		if e.Number == n {
			return e, true
		}
	}
	return EnumEntry{IllegalValue, IllegalName, IllegalDesc}, false
}

// Parse resolves a member by name, ignoring case.
func (t EnumTable) Parse(name string) (EnumEntry, bool) {
	for _, e := range t {
		if strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return e, true
		}
	}
	return EnumEntry{IllegalValue, IllegalName, IllegalDesc}, false
}
